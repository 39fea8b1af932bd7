package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelens-lab/notelens/pkg/cli/config"
	httpctrl "github.com/notelens-lab/notelens/pkg/controller/http"
	"github.com/notelens-lab/notelens/pkg/service/llm"
	"github.com/notelens-lab/notelens/pkg/usecase"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var llmCfg config.LLM
	var notebooksCfg config.Notebooks

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("NOTELENS_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, notebooksCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			if err := notebooksCfg.Configure(ctx, repo); err != nil {
				return goerr.Wrap(err, "failed to preload notebooks")
			}

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
				logging.Default().LogAttrs(ctx, slog.LevelInfo, "LLM provider enabled", llmCfg.LogAttrs()...)
			} else {
				logging.Default().Warn("No LLM provider configured, chunks will not be embedded and queries will fail")
			}

			uc := usecase.New(repo, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
