package usecase

import (
	"time"

	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

type UseCases struct {
	repo interfaces.Repository
	llm  interfaces.LLMClient

	chunkSize     int
	topK          int
	embedWorkers  int
	contextBudget int
	genTimeout    time.Duration
}

type Option func(*UseCases)

// WithLLM sets the embedding/generation provider. Without it, ingestion
// stores chunks unembedded and queries fail at the generation step.
func WithLLM(llm interfaces.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llm = llm
	}
}

func WithChunkSize(size int) Option {
	return func(uc *UseCases) {
		if size > 0 {
			uc.chunkSize = size
		}
	}
}

func WithTopK(k int) Option {
	return func(uc *UseCases) {
		if k > 0 {
			uc.topK = k
		}
	}
}

func WithEmbedWorkers(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.embedWorkers = n
		}
	}
}

func WithGenerateTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		if d > 0 {
			uc.genTimeout = d
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		chunkSize:     types.DefaultChunkSize,
		topK:          types.DefaultTopK,
		embedWorkers:  types.DefaultEmbedWorkers,
		contextBudget: types.DefaultContextCharBudget,
		genTimeout:    types.DefaultGenerateTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
