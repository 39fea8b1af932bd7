package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

const (
	// DefaultChunkSize is the soft upper bound for chunk text length in characters.
	DefaultChunkSize = 1000

	// DefaultTopK is the number of ranked chunks selected for answer context.
	DefaultTopK = 5

	// SemanticWeight and LexicalWeight combine cosine similarity and raw term
	// counts into a single ranking score. Semantic similarity is bounded in
	// [-1, 1] while the lexical score is an unbounded count, so the lexical
	// part mostly acts as a boost. The weights must not change without
	// invalidating recorded rankings.
	SemanticWeight = 0.7
	LexicalWeight  = 0.3

	// DefaultEmbedWorkers bounds concurrent embedding calls during ingestion.
	DefaultEmbedWorkers = 4

	// DefaultContextCharBudget caps the size of the assembled context block.
	DefaultContextCharBudget = 8000

	// DefaultGenerateTimeout bounds a single generation call.
	DefaultGenerateTimeout = 2 * time.Minute
)

// NotebookID is a UUID-based identifier for a Notebook
type NotebookID string

// NewNotebookID generates a new UUID v4 NotebookID
func NewNotebookID() NotebookID {
	return NotebookID(uuid.New().String())
}

func (x NotebookID) String() string {
	return string(x)
}

// Validate checks if the NotebookID is valid
func (x NotebookID) Validate() error {
	if x == "" {
		return goerr.New("notebook ID is empty")
	}
	return nil
}
