package interfaces

import "context"

// EmbeddingClient converts text into a fixed-dimensionality vector.
// A failed call is recoverable: the caller falls back to lexical-only scoring
// for that text.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerationClient produces a completion for a single prompt. No streaming,
// no conversation state.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMClient provides both embedding and generation through one provider.
type LLMClient interface {
	EmbeddingClient
	GenerationClient
}
