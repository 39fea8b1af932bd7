package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelens-lab/notelens/pkg/cli/config"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/service/llm"
	"github.com/notelens-lab/notelens/pkg/usecase"
	"github.com/notelens-lab/notelens/pkg/utils/safe"
)

func cmdQuery() *cli.Command {
	var notebookID string
	var topK int
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
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of chunks to retrieve",
			Value:       types.DefaultTopK,
			Sources:     cli.EnvVars("NOTELENS_TOP_K"),
			Destination: &topK,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)

	return &cli.Command{
		Name:      "query",
		Usage:     "Ask a question against a notebook",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			ucOpts := []usecase.Option{
				usecase.WithTopK(topK),
			}
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
			answer, err := uc.Query(ctx, types.NotebookID(notebookID), question)
			if err != nil {
				return err
			}

			var buf strings.Builder
			buf.WriteString(answer.Text)
			buf.WriteString("\n")

			if len(answer.Sources) > 0 {
				buf.WriteString("\n")
				buf.WriteString(color.New(color.Bold).Sprint("Sources:"))
				buf.WriteString("\n")
				for _, src := range answer.Sources {
					buf.WriteString(fmt.Sprintf("  %s (score %.3f)\n",
						color.CyanString("%s#%d", src.SourceName, src.Seq),
						src.Score,
					))
					if src.Preview != "" {
						buf.WriteString(fmt.Sprintf("    %s\n", color.HiBlackString(src.Preview)))
					}
				}
			}

			safe.Write(ctx, os.Stdout, []byte(buf.String()))
			return nil
		},
	}
}
