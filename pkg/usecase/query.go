package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/service/rank"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
)

// contextDelimiter separates chunks inside the assembled context block.
const contextDelimiter = "\n---\n"

// Query answers a question from the chunks of one notebook. An unknown or
// empty notebook yields the fixed "no documents" answer without touching the
// embedding or generation provider. A failed query embedding degrades ranking
// to lexical-only; a failed generation call is surfaced to the caller.
func (uc *UseCases) Query(ctx context.Context, id types.NotebookID, question string) (*model.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, goerr.New("question is empty")
	}

	notebook, err := uc.repo.Notebook().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return model.NoDocumentsAnswer(), nil
		}
		return nil, goerr.Wrap(err, "failed to resolve notebook", goerr.V("notebook_id", id))
	}
	if len(notebook.Chunks) == 0 {
		return model.NoDocumentsAnswer(), nil
	}

	if uc.llm == nil {
		return nil, goerr.New("no generation provider configured", goerr.V("notebook_id", id))
	}

	var queryEmbedding []float32
	if embedding, err := uc.llm.Embed(ctx, question); err != nil {
		logging.From(ctx).Warn("query embedding unavailable, ranking lexically only", "error", err)
	} else {
		queryEmbedding = embedding
	}

	matches := rank.Rank(queryEmbedding, question, notebook.Chunks, uc.topK)
	prompt := buildAnswerPrompt(uc.assembleContext(matches), question)

	genCtx, cancel := context.WithTimeout(ctx, uc.genTimeout)
	defer cancel()

	text, err := uc.llm.Generate(genCtx, prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate answer", goerr.V("notebook_id", id))
	}

	sources := make([]model.SourceMatch, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, model.SourceMatch{
			SourceName: m.Chunk.SourceName,
			Seq:        m.Chunk.Seq,
			Preview:    model.Preview(m.Chunk.Text),
			Score:      m.Score,
		})
	}

	return &model.Answer{Text: text, Sources: sources}, nil
}

// assembleContext concatenates the ranked chunks with attribution headers,
// in rank order, up to the context character budget. The budget never drops
// the first chunk.
func (uc *UseCases) assembleContext(matches []rank.ScoredChunk) string {
	var sb strings.Builder
	for _, m := range matches {
		block := fmt.Sprintf("[source: %s, chunk %d]\n%s", m.Chunk.SourceName, m.Chunk.Seq, m.Chunk.Text)
		if sb.Len() > 0 && sb.Len()+len(contextDelimiter)+len(block) > uc.contextBudget {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString(contextDelimiter)
		}
		sb.WriteString(block)
	}
	return sb.String()
}

// buildAnswerPrompt embeds the context block and the literal question into a
// single grounding instruction for the generation provider.
func buildAnswerPrompt(contextBlock, question string) string {
	var sb strings.Builder

	sb.WriteString("You are a document assistant. Answer the question using only the context below.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Answer strictly from the context. Do not use outside knowledge.\n")
	sb.WriteString("2. Cite the source name and chunk number for every claim, e.g. (notes.txt, chunk 2).\n")
	sb.WriteString("3. If the context does not contain the answer, state that explicitly.\n\n")
	sb.WriteString("## Context:\n\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\n## Question:\n\n")
	sb.WriteString(question)
	sb.WriteString("\n")

	return sb.String()
}
