package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/repository/firestore"
	"github.com/notelens-lab/notelens/pkg/repository/memory"
	"github.com/notelens-lab/notelens/pkg/repository/mirror"
)

func testChunks(sourceName string, n int) []*model.Chunk {
	chunks := make([]*model.Chunk, n)
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("Chunk %d of %s with enough text to preview.", i, sourceName)
		chunks[i] = &model.Chunk{
			ID:         model.NewChunkID(sourceName, i),
			SourceName: sourceName,
			Seq:        i,
			Text:       text,
			CharCount:  len(text),
			Embedding:  []float32{float32(i), 0.5, -0.5},
		}
	}
	return chunks
}

func runNotebookRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns UUID and defaults", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "Project notes"})
		gt.NoError(t, err).Required()

		gt.String(t, created.ID.String()).NotEqual("")
		gt.Value(t, created.Name).Equal("Project notes")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
	})

	t.Run("Create without name uses default", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notebook().Create(ctx, &model.Notebook{})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Name).Equal(model.DefaultNotebookName)
	})

	t.Run("Create with provided ID preserves it", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		customID := types.NewNotebookID()
		created, err := repo.Notebook().Create(ctx, &model.Notebook{ID: customID, Name: "preset"})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(customID)
	})

	t.Run("Get returns stored notebook with chunks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "With chunks"})
		gt.NoError(t, err).Required()

		chunks := testChunks("alpha.txt", 3)
		gt.NoError(t, repo.Notebook().AppendChunks(ctx, created.ID, "alpha.txt", chunks)).Required()

		got, err := repo.Notebook().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Value(t, got.ID).Equal(created.ID)
		gt.Array(t, got.Chunks).Length(3).Required()
		gt.Array(t, got.Sources).Length(1).Required()
		gt.Value(t, got.Sources[0].Name).Equal("alpha.txt")
		gt.Value(t, got.Sources[0].ChunkCount).Equal(3)

		for i, c := range got.Chunks {
			gt.Value(t, c.Seq).Equal(i)
			gt.Value(t, c.SourceName).Equal("alpha.txt")
			gt.Array(t, c.Embedding).Length(3)
			gt.Value(t, c.Embedding[0]).Equal(float32(i))
		}
	})

	t.Run("Get unknown ID returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Notebook().Get(ctx, types.NewNotebookID())
		gt.Value(t, err).NotNil().Required()
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("List returns notebooks without chunk payloads", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "list-first"})
		gt.NoError(t, err).Required()
		_, err = repo.Notebook().Create(ctx, &model.Notebook{Name: "list-second"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Notebook().AppendChunks(ctx, first.ID, "doc.txt", testChunks("doc.txt", 2))).Required()

		listed, err := repo.Notebook().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(listed)).GreaterOrEqual(2)

		var found *model.Notebook
		for _, n := range listed {
			gt.Array(t, n.Chunks).Length(0)
			if n.ID == first.ID {
				found = n
			}
		}
		gt.Value(t, found).NotNil().Required()
		gt.Array(t, found.Sources).Length(1).Required()
		gt.Value(t, found.Sources[0].ChunkCount).Equal(2)
	})

	t.Run("AppendChunks to unknown notebook fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Notebook().AppendChunks(ctx, types.NewNotebookID(), "doc.txt", testChunks("doc.txt", 1))
		gt.Value(t, err).NotNil().Required()
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})

	t.Run("re-appending the same source keeps both generations", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "regen"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Notebook().AppendChunks(ctx, created.ID, "notes.txt", testChunks("notes.txt", 2))).Required()
		gt.NoError(t, repo.Notebook().AppendChunks(ctx, created.ID, "notes.txt", testChunks("notes.txt", 3))).Required()

		got, err := repo.Notebook().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		gt.Array(t, got.Chunks).Length(5)
		gt.Array(t, got.Sources).Length(2).Required()
		gt.Value(t, got.Sources[0].ChunkCount).Equal(2)
		gt.Value(t, got.Sources[1].ChunkCount).Equal(3)
	})

	t.Run("stored chunks are isolated from caller mutation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "isolation"})
		gt.NoError(t, err).Required()

		chunks := testChunks("doc.txt", 1)
		gt.NoError(t, repo.Notebook().AppendChunks(ctx, created.ID, "doc.txt", chunks)).Required()

		chunks[0].Text = "mutated after store"
		chunks[0].Embedding[0] = 99

		got, err := repo.Notebook().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.Chunks).Length(1).Required()
		gt.String(t, got.Chunks[0].Text).NotEqual("mutated after store")
		gt.Value(t, got.Chunks[0].Embedding[0]).Equal(float32(0))
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func TestMemoryNotebookRepository(t *testing.T) {
	runNotebookRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreNotebookRepository(t *testing.T) {
	runNotebookRepositoryTest(t, newFirestoreRepository)
}

func TestMirrorNotebookRepository(t *testing.T) {
	runNotebookRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return mirror.New(memory.New(), memory.New())
	})
}
