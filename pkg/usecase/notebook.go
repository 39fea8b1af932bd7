package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/model"
)

// CreateNotebook creates a new empty notebook. An empty name falls back to
// the default display name.
func (uc *UseCases) CreateNotebook(ctx context.Context, name string) (*model.Notebook, error) {
	notebook, err := uc.repo.Notebook().Create(ctx, &model.Notebook{Name: name})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create notebook", goerr.V("name", name))
	}

	return notebook, nil
}

// ListNotebooks returns all notebooks with their source metadata but without
// chunk contents.
func (uc *UseCases) ListNotebooks(ctx context.Context) ([]*model.Notebook, error) {
	notebooks, err := uc.repo.Notebook().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notebooks")
	}

	return notebooks, nil
}
