package interfaces

import (
	"context"

	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
)

// NotebookRepository defines the interface for notebook persistence
type NotebookRepository interface {
	// Create stores a new notebook. When the notebook has no ID, one is
	// assigned. It returns the stored notebook.
	Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error)

	// Get retrieves a notebook with its chunks. Returns ErrNotFound when the
	// ID is unknown.
	Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error)

	// List retrieves all notebooks without their chunk contents. Sources and
	// creation metadata are populated.
	List(ctx context.Context) ([]*model.Notebook, error)

	// AppendChunks appends chunks for a source document to a notebook and
	// records a new source entry. Existing chunks are never rewritten.
	// Appends against the same notebook are atomic with respect to each other.
	AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error
}

// Repository defines the interface for data persistence
type Repository interface {
	Notebook() NotebookRepository
	Close() error
}
