package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// notebookDoc is the Firestore document representation of model.Notebook.
// Chunks live in a subcollection; ChunkCount on the parent doc provides the
// next insertion ordinal for appends.
type notebookDoc struct {
	ID         types.NotebookID `firestore:"ID"`
	Name       string           `firestore:"Name"`
	Sources    []sourceRefDoc   `firestore:"Sources"`
	ChunkCount int              `firestore:"ChunkCount"`
	CreatedAt  time.Time        `firestore:"CreatedAt"`
}

type sourceRefDoc struct {
	Name       string    `firestore:"Name"`
	ChunkCount int       `firestore:"ChunkCount"`
	LinkedAt   time.Time `firestore:"LinkedAt"`
}

// chunkDoc stores the embedding as firestore.Vector32 so that FindNearest
// vector search stays available. Ord is the notebook-wide insertion position
// and defines the stable read order.
type chunkDoc struct {
	ID         model.ChunkID      `firestore:"ID"`
	SourceName string             `firestore:"SourceName"`
	Seq        int                `firestore:"Seq"`
	Text       string             `firestore:"Text"`
	CharCount  int                `firestore:"CharCount"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	Ord        int                `firestore:"Ord"`
}

func toChunkDoc(c *model.Chunk, ord int) *chunkDoc {
	doc := &chunkDoc{
		ID:         c.ID,
		SourceName: c.SourceName,
		Seq:        c.Seq,
		Text:       c.Text,
		CharCount:  c.CharCount,
		Ord:        ord,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	c := &model.Chunk{
		ID:         d.ID,
		SourceName: d.SourceName,
		Seq:        d.Seq,
		Text:       d.Text,
		CharCount:  d.CharCount,
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

func toNotebookDoc(n *model.Notebook) *notebookDoc {
	doc := &notebookDoc{
		ID:         n.ID,
		Name:       n.Name,
		ChunkCount: len(n.Chunks),
		CreatedAt:  n.CreatedAt,
	}
	for _, s := range n.Sources {
		doc.Sources = append(doc.Sources, sourceRefDoc(s))
	}
	return doc
}

func fromNotebookDoc(d *notebookDoc) *model.Notebook {
	n := &model.Notebook{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
	}
	for _, s := range d.Sources {
		n.Sources = append(n.Sources, model.SourceRef(s))
	}
	return n
}

// chunkDocID keys chunk documents by insertion ordinal. Chunk IDs repeat when
// the same source name is ingested twice, so they cannot be document keys.
func chunkDocID(ord int) string {
	return fmt.Sprintf("%08d", ord)
}

type notebookRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNotebookRepository(client *firestore.Client) *notebookRepository {
	return &notebookRepository{
		client: client,
	}
}

func (r *notebookRepository) notebooksCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "notebooks")
}

func (r *notebookRepository) chunksCollection(id types.NotebookID) *firestore.CollectionRef {
	return r.notebooksCollection().Doc(string(id)).Collection("chunks")
}

func (r *notebookRepository) Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error) {
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

	docRef := r.notebooksCollection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toNotebookDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create notebook", goerr.V("id", created.ID))
	}

	// A notebook created from a full snapshot (cache backfill in reverse)
	// carries its chunks.
	for ord, c := range created.Chunks {
		chunkRef := r.chunksCollection(created.ID).Doc(chunkDocID(ord))
		if _, err := chunkRef.Set(ctx, toChunkDoc(c, ord)); err != nil {
			return nil, goerr.Wrap(err, "failed to write chunk",
				goerr.V("notebook_id", created.ID),
				goerr.V("chunk_id", c.ID),
			)
		}
	}

	return created, nil
}

func (r *notebookRepository) Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	doc, err := r.notebooksCollection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "no such notebook", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get notebook", goerr.V("id", id))
	}

	var d notebookDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal notebook", goerr.V("id", id))
	}
	notebook := fromNotebookDoc(&d)

	iter := r.chunksCollection(id).OrderBy("Ord", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	for {
		chunkSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks", goerr.V("id", id))
		}

		var cd chunkDoc
		if err := chunkSnap.DataTo(&cd); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk", goerr.V("id", id))
		}
		notebook.Chunks = append(notebook.Chunks, fromChunkDoc(&cd))
	}

	return notebook, nil
}

func (r *notebookRepository) List(ctx context.Context) ([]*model.Notebook, error) {
	iter := r.notebooksCollection().OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	notebooks := make([]*model.Notebook, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notebooks")
		}

		var d notebookDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notebook")
		}
		notebooks = append(notebooks, fromNotebookDoc(&d))
	}

	return notebooks, nil
}

func (r *notebookRepository) AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error {
	docRef := r.notebooksCollection().Doc(string(id))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "no such notebook", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get notebook", goerr.V("id", id))
		}

		var d notebookDoc
		if err := doc.DataTo(&d); err != nil {
			return goerr.Wrap(err, "failed to unmarshal notebook", goerr.V("id", id))
		}

		for i, c := range chunks {
			chunkRef := r.chunksCollection(id).Doc(chunkDocID(d.ChunkCount + i))
			if err := tx.Set(chunkRef, toChunkDoc(c, d.ChunkCount+i)); err != nil {
				return goerr.Wrap(err, "failed to write chunk", goerr.V("chunk_id", c.ID))
			}
		}

		d.ChunkCount += len(chunks)
		d.Sources = append(d.Sources, sourceRefDoc{
			Name:       sourceName,
			ChunkCount: len(chunks),
			LinkedAt:   time.Now().UTC(),
		})

		if err := tx.Set(docRef, &d); err != nil {
			return goerr.Wrap(err, "failed to update notebook", goerr.V("id", id))
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to append chunks",
			goerr.V("id", id),
			goerr.V("source", sourceName),
		)
	}

	return nil
}
