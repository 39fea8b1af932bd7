package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/notelens-lab/notelens/pkg/domain/model"
)

func TestNotebookClone(t *testing.T) {
	original := &model.Notebook{
		ID:   "nb-1",
		Name: "original",
		Sources: []model.SourceRef{
			{Name: "doc.txt", ChunkCount: 1},
		},
		Chunks: []*model.Chunk{
			{
				ID:         model.NewChunkID("doc.txt", 0),
				SourceName: "doc.txt",
				Seq:        0,
				Text:       "chunk text",
				CharCount:  10,
				Embedding:  []float32{1, 2, 3},
			},
		},
	}

	cloned := original.Clone()

	cloned.Name = "changed"
	cloned.Sources[0].Name = "other.txt"
	cloned.Chunks[0].Text = "changed text"
	cloned.Chunks[0].Embedding[0] = 99

	gt.Value(t, original.Name).Equal("original")
	gt.Value(t, original.Sources[0].Name).Equal("doc.txt")
	gt.Value(t, original.Chunks[0].Text).Equal("chunk text")
	gt.Value(t, original.Chunks[0].Embedding[0]).Equal(float32(1))
}

func TestNewChunkID(t *testing.T) {
	gt.Value(t, string(model.NewChunkID("notes.txt", 0))).Equal("notes.txt#0")
	gt.Value(t, string(model.NewChunkID("notes.txt", 12))).Equal("notes.txt#12")
}

func TestNotebookChunkCount(t *testing.T) {
	n := &model.Notebook{}
	gt.Value(t, n.ChunkCount()).Equal(0)

	n.Chunks = append(n.Chunks, &model.Chunk{}, &model.Chunk{})
	gt.Value(t, n.ChunkCount()).Equal(2)
}
