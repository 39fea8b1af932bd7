package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelens-lab/notelens/pkg/cli/config"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/service/llm"
	"github.com/notelens-lab/notelens/pkg/usecase"
	"github.com/notelens-lab/notelens/pkg/utils/safe"
)

func cmdIngest() *cli.Command {
	var notebookID string
	var sourceName string
	var repoCfg config.Repository
	var llmCfg config.LLM

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "notebook",
			Usage:       "Target notebook ID",
			Required:    true,
			Sources:     cli.EnvVars("NOTELENS_NOTEBOOK"),
			Destination: &notebookID,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "Source document name (defaults to the file name)",
			Destination: &sourceName,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:      "ingest",
		Usage:     "Ingest a text document into a notebook",
		ArgsUsage: "<file path, or - for stdin>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("file path is required")
			}

			var text []byte
			var err error
			if path == "-" {
				text, err = io.ReadAll(os.Stdin)
			} else {
				// #nosec G304 - path is expected to be provided by CLI argument
				text, err = os.ReadFile(path)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read document", goerr.V("path", path))
			}

			if sourceName == "" {
				if path == "-" {
					sourceName = "stdin"
				} else {
					sourceName = filepath.Base(path)
				}
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			ucOpts := []usecase.Option{}
			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM provider")
			}
			if llmClient != nil {
				svc, err := llm.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize LLM service")
				}
				ucOpts = append(ucOpts, usecase.WithLLM(svc))
			}

			uc := usecase.New(repo, ucOpts...)
			result, err := uc.Ingest(ctx, types.NotebookID(notebookID), sourceName, string(text))
			if err != nil {
				return err
			}

			fmt.Printf("Ingested %q into notebook %s: %d chunks\n",
				result.SourceName, result.NotebookID, result.ChunkCount)
			return nil
		},
	}
}
