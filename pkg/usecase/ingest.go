package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/service/chunker"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// IngestResult summarizes one document ingestion.
type IngestResult struct {
	NotebookID types.NotebookID
	SourceName string
	ChunkCount int
	Chunks     []*model.Chunk
}

// Ingest splits document text into chunks, embeds them, and appends them to
// the notebook. Embedding failures are tolerated per chunk: an unembedded
// chunk still ranks through lexical scoring. The notebook must already exist.
func (uc *UseCases) Ingest(ctx context.Context, id types.NotebookID, sourceName, text string) (*IngestResult, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sourceName == "" {
		return nil, goerr.New("source name is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("document text is empty", goerr.V("source", sourceName))
	}

	if _, err := uc.repo.Notebook().Get(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to resolve notebook", goerr.V("notebook_id", id))
	}

	chunks := chunker.Split(text, sourceName, uc.chunkSize)
	if uc.llm != nil {
		uc.embedChunks(ctx, chunks)
	}

	if err := uc.repo.Notebook().AppendChunks(ctx, id, sourceName, chunks); err != nil {
		return nil, goerr.Wrap(err, "failed to store chunks",
			goerr.V("notebook_id", id),
			goerr.V("source", sourceName),
		)
	}

	logging.From(ctx).Info("ingested document",
		"notebook_id", id,
		"source", sourceName,
		"chunks", len(chunks),
	)

	return &IngestResult{
		NotebookID: id,
		SourceName: sourceName,
		ChunkCount: len(chunks),
		Chunks:     chunks,
	}, nil
}

// embedChunks fills in chunk embeddings through a bounded worker pool.
// Results land at the chunk's own index, so stored order and sequence
// contiguity are independent of completion order.
func (uc *UseCases) embedChunks(ctx context.Context, chunks []*model.Chunk) {
	var g errgroup.Group
	g.SetLimit(uc.embedWorkers)

	for _, c := range chunks {
		g.Go(func() error {
			embedding, err := uc.llm.Embed(ctx, c.Text)
			if err != nil {
				logging.From(ctx).Warn("embedding unavailable, chunk will rank lexically only",
					"chunk_id", c.ID, "error", err)
				return nil
			}
			c.Embedding = embedding
			return nil
		})
	}

	// Workers never return errors; failures degrade the chunk instead.
	_ = g.Wait()
}
