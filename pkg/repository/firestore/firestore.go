package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
)

// Firestore is the durable repository backend. It is meant to sit behind the
// in-memory cache as a best-effort mirror; it can also serve as a standalone
// repository for tests.
type Firestore struct {
	client   *firestore.Client
	notebook *notebookRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces the Firestore collections, mainly for tests.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.notebook.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:   client,
		notebook: newNotebookRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Notebook() interfaces.NotebookRepository {
	return f.notebook
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
