package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

// Client wraps a gollem LLM client as both the embedding and the generation
// provider. Retry policy, if any, belongs to the caller.
type Client struct {
	llmClient gollem.LLMClient
}

var _ interfaces.LLMClient = &Client{}

// New creates a new LLM service with the provided gollem client
func New(llmClient gollem.LLMClient) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	return &Client{llmClient: llmClient}, nil
}

// Embed generates an embedding vector for the given text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.llmClient.GenerateEmbedding(ctx, types.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}

	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}

	// Convert float64 to float32
	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}

// Generate produces a single completion for the prompt. One session per call,
// no conversation state.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := c.llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}

	if len(resp.Texts) == 0 {
		return "", goerr.New("empty response from LLM")
	}

	return resp.Texts[0], nil
}
