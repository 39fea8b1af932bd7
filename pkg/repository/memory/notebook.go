package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

type notebookRepository struct {
	mu        sync.RWMutex
	notebooks map[types.NotebookID]*model.Notebook
}

func newNotebookRepository() *notebookRepository {
	return &notebookRepository{
		notebooks: make(map[types.NotebookID]*model.Notebook),
	}
}

func (r *notebookRepository) Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := notebook.Clone()
	if created.ID == "" {
		created.ID = types.NewNotebookID()
	}
	if created.Name == "" {
		created.Name = model.DefaultNotebookName
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.notebooks[created.ID] = created
	return created.Clone(), nil
}

func (r *notebookRepository) Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notebook, exists := r.notebooks[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "no such notebook", goerr.V("id", id))
	}

	return notebook.Clone(), nil
}

func (r *notebookRepository) List(ctx context.Context) ([]*model.Notebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Notebook, 0, len(r.notebooks))
	for _, n := range r.notebooks {
		copied := n.Clone()
		copied.Chunks = nil
		result = append(result, copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *notebookRepository) AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notebook, exists := r.notebooks[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "no such notebook", goerr.V("id", id))
	}

	for _, c := range chunks {
		notebook.Chunks = append(notebook.Chunks, c.Clone())
	}
	notebook.Sources = append(notebook.Sources, model.SourceRef{
		Name:       sourceName,
		ChunkCount: len(chunks),
		LinkedAt:   time.Now().UTC(),
	})

	return nil
}
