package rank

import (
	"sort"

	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

// ScoredChunk pairs a chunk with its combined ranking score.
type ScoredChunk struct {
	Chunk *model.Chunk
	Score float64
}

// Rank orders chunks by the weighted combination of semantic and lexical
// scores and returns the top K. The sort is stable: on equal scores the
// earlier-inserted chunk wins. A nil queryEmbedding degrades ranking to
// lexical-only, since cosine similarity against an absent vector is 0.
// A non-positive topK falls back to types.DefaultTopK.
func Rank(queryEmbedding []float32, query string, chunks []*model.Chunk, topK int) []ScoredChunk {
	if topK <= 0 {
		topK = types.DefaultTopK
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		score := types.SemanticWeight*CosineSimilarity(queryEmbedding, c.Embedding) +
			types.LexicalWeight*LexicalScore(query, c.Text)
		scored = append(scored, ScoredChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return scored
}
