package model

import (
	"time"

	"github.com/notelens-lab/notelens/pkg/domain/types"
)

// DefaultNotebookName is used when a notebook is created without a name.
const DefaultNotebookName = "Untitled notebook"

// SourceRef records one ingestion of a source document into a notebook.
// Ingesting the same source name again appends a second entry; earlier chunks
// are never rewritten.
type SourceRef struct {
	Name       string
	ChunkCount int
	LinkedAt   time.Time
}

// Notebook is a named grouping of chunks. Chunks keep insertion order, which
// is what makes ranking ties reproducible.
type Notebook struct {
	ID        types.NotebookID
	Name      string
	Sources   []SourceRef
	Chunks    []*Chunk
	CreatedAt time.Time
}

// ChunkCount returns the number of chunks held by the notebook.
func (n *Notebook) ChunkCount() int {
	return len(n.Chunks)
}

// Clone creates a deep copy of the notebook
func (n *Notebook) Clone() *Notebook {
	copied := &Notebook{
		ID:        n.ID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
	}

	if n.Sources != nil {
		copied.Sources = make([]SourceRef, len(n.Sources))
		copy(copied.Sources, n.Sources)
	}

	if n.Chunks != nil {
		copied.Chunks = make([]*Chunk, len(n.Chunks))
		for i, c := range n.Chunks {
			copied.Chunks[i] = c.Clone()
		}
	}

	return copied
}
