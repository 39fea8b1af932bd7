package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the embedding/generation provider
type LLM struct {
	provider       string
	geminiProject  string
	geminiLocation string
	openaiAPIKey   string
	claudeAPIKey   string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (gemini, openai or claude)",
			Sources:     cli.EnvVars("NOTELENS_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("NOTELENS_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("NOTELENS_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("NOTELENS_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("NOTELENS_CLAUDE_API_KEY"),
			Destination: &l.claudeAPIKey,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration. API keys are
// never included.
func (l *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", l.provider),
		slog.String("gemini_project", l.geminiProject),
		slog.String("gemini_location", l.geminiLocation),
	}
}

// Configure creates a gollem client for the configured provider.
// Returns nil if no provider is configured: ingestion then stores chunks
// without embeddings and queries fail at the generation step.
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch l.provider {
	case "":
		return nil, nil

	case "gemini":
		if l.geminiProject == "" {
			return nil, goerr.New("gemini-project is required for the gemini provider")
		}
		client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "openai":
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required for the openai provider")
		}
		client, err := openai.New(ctx, l.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case "claude":
		if l.claudeAPIKey == "" {
			return nil, goerr.New("claude-api-key is required for the claude provider")
		}
		client, err := claude.New(ctx, l.claudeAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	default:
		return nil, goerr.New("invalid LLM provider", goerr.V("provider", l.provider))
	}
}
