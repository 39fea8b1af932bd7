package cli

import (
	"context"

	"github.com/notelens-lab/notelens/pkg/cli/config"
	"github.com/notelens-lab/notelens/pkg/utils/errutil"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "notelens",
		Usage:   "Notebook-scoped document Q&A service",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting notelens", "logger", loggerCfg.LogValue())
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdNotebook(),
			cmdIngest(),
			cmdQuery(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}
