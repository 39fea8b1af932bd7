package usecase_test

import (
	"context"
	"sync/atomic"
)

// mockLLM is a mock implementation of interfaces.LLMClient for testing.
// Call counts are atomic because ingestion embeds through a worker pool.
type mockLLM struct {
	embedFn    func(ctx context.Context, text string) ([]float32, error)
	generateFn func(ctx context.Context, prompt string) (string, error)

	embedCalls    atomic.Int64
	generateCalls atomic.Int64
	lastPrompt    atomic.Value
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.generateCalls.Add(1)
	m.lastPrompt.Store(prompt)
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt)
	}
	return "generated answer", nil
}

func (m *mockLLM) prompt() string {
	if p, ok := m.lastPrompt.Load().(string); ok {
		return p
	}
	return ""
}
