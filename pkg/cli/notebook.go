package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelens-lab/notelens/pkg/cli/config"
	"github.com/notelens-lab/notelens/pkg/usecase"
	"github.com/notelens-lab/notelens/pkg/utils/safe"
)

func cmdNotebook() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "notebook",
		Usage: "Manage notebooks",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a new notebook",
				ArgsUsage: "<name>",
				Flags:     repoCfg.Flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					repo, err := repoCfg.Configure(ctx)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize repository")
					}
					defer safe.Close(ctx, repo)

					uc := usecase.New(repo)
					notebook, err := uc.CreateNotebook(ctx, c.Args().First())
					if err != nil {
						return err
					}

					fmt.Printf("%s\t%s\n", notebook.ID, notebook.Name)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List notebooks",
				Flags: repoCfg.Flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					repo, err := repoCfg.Configure(ctx)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize repository")
					}
					defer safe.Close(ctx, repo)

					uc := usecase.New(repo)
					notebooks, err := uc.ListNotebooks(ctx)
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tSOURCES\tCHUNKS\tCREATED")
					for _, n := range notebooks {
						chunks := 0
						for _, s := range n.Sources {
							chunks += s.ChunkCount
						}
						fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
							n.ID, n.Name, len(n.Sources), chunks,
							n.CreatedAt.Format("2006-01-02 15:04"),
						)
					}
					return w.Flush()
				},
			},
		},
	}
}
