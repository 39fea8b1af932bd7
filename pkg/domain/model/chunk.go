package model

import "fmt"

// ChunkID identifies a chunk within a notebook. It is derived from the source
// document name and the chunk's sequence index, so the same document always
// yields the same IDs.
type ChunkID string

// NewChunkID builds the deterministic chunk ID for a source document and
// zero-based sequence index.
func NewChunkID(sourceName string, seq int) ChunkID {
	return ChunkID(fmt.Sprintf("%s#%d", sourceName, seq))
}

// Chunk is an immutable unit of retrievable text extracted from a source
// document. Embedding is empty when embedding generation failed for this
// chunk; such chunks still participate in retrieval through lexical scoring.
type Chunk struct {
	ID         ChunkID
	SourceName string
	Seq        int
	Text       string
	CharCount  int
	Embedding  []float32
}

// Clone creates a deep copy of the chunk
func (c *Chunk) Clone() *Chunk {
	copied := &Chunk{
		ID:         c.ID,
		SourceName: c.SourceName,
		Seq:        c.Seq,
		Text:       c.Text,
		CharCount:  c.CharCount,
	}

	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}

	return copied
}
