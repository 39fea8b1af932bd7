package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/repository/memory"
	"github.com/notelens-lab/notelens/pkg/usecase"
)

func TestCreateNotebook(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ID and timestamp", func(t *testing.T) {
		uc := usecase.New(memory.New())

		notebook, err := uc.CreateNotebook(ctx, "my notebook")
		gt.NoError(t, err).Required()

		gt.String(t, notebook.ID.String()).NotEqual("")
		gt.Value(t, notebook.Name).Equal("my notebook")
		gt.Bool(t, notebook.CreatedAt.IsZero()).False()
		gt.Array(t, notebook.Sources).Length(0)
	})

	t.Run("empty name falls back to default", func(t *testing.T) {
		uc := usecase.New(memory.New())

		notebook, err := uc.CreateNotebook(ctx, "")
		gt.NoError(t, err).Required()
		gt.Value(t, notebook.Name).Equal(model.DefaultNotebookName)
	})
}

func TestListNotebooks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty repository lists nothing", func(t *testing.T) {
		uc := usecase.New(memory.New())

		notebooks, err := uc.ListNotebooks(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, notebooks).Length(0)
	})

	t.Run("lists metadata without chunk contents", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, usecase.WithLLM(&mockLLM{}))

		first, err := uc.CreateNotebook(ctx, "first")
		gt.NoError(t, err).Required()
		_, err = uc.CreateNotebook(ctx, "second")
		gt.NoError(t, err).Required()

		_, err = uc.Ingest(ctx, first.ID, "doc.txt", "Some document text.")
		gt.NoError(t, err).Required()

		notebooks, err := uc.ListNotebooks(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, notebooks).Length(2).Required()

		for _, n := range notebooks {
			gt.Array(t, n.Chunks).Length(0)
		}

		var listed *model.Notebook
		for _, n := range notebooks {
			if n.ID == first.ID {
				listed = n
			}
		}
		gt.Value(t, listed).NotNil().Required()
		gt.Array(t, listed.Sources).Length(1).Required()
		gt.Value(t, listed.Sources[0].ChunkCount).Equal(1)
	})
}
