package mirror_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/repository/memory"
	"github.com/notelens-lab/notelens/pkg/repository/mirror"
)

// brokenRepository fails every operation, standing in for an unreachable
// durable backend.
type brokenRepository struct{}

var _ interfaces.Repository = &brokenRepository{}

func (r *brokenRepository) Notebook() interfaces.NotebookRepository { return &brokenNotebooks{} }
func (r *brokenRepository) Close() error                            { return nil }

type brokenNotebooks struct{}

func (r *brokenNotebooks) Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error) {
	return nil, goerr.New("backend unreachable")
}

func (r *brokenNotebooks) Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	return nil, goerr.New("backend unreachable")
}

func (r *brokenNotebooks) List(ctx context.Context) ([]*model.Notebook, error) {
	return nil, goerr.New("backend unreachable")
}

func (r *brokenNotebooks) AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error {
	return goerr.New("backend unreachable")
}

func TestMirrorSwallowsDurableFailures(t *testing.T) {
	ctx := context.Background()
	repo := mirror.New(memory.New(), &brokenRepository{})

	created, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "resilient"})
	gt.NoError(t, err).Required()

	chunk := &model.Chunk{
		ID:         model.NewChunkID("doc.txt", 0),
		SourceName: "doc.txt",
		Seq:        0,
		Text:       "chunk text",
		CharCount:  10,
	}
	gt.NoError(t, repo.Notebook().AppendChunks(ctx, created.ID, "doc.txt", []*model.Chunk{chunk})).Required()

	got, err := repo.Notebook().Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, got.Chunks).Length(1)

	listed, err := repo.Notebook().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(1)
}

func TestMirrorBackfillsCacheFromDurable(t *testing.T) {
	ctx := context.Background()

	cache := memory.New()
	durable := memory.New()

	// Seed the durable backend only, as if a previous process persisted it.
	seeded, err := durable.Notebook().Create(ctx, &model.Notebook{Name: "persisted"})
	gt.NoError(t, err).Required()
	chunk := &model.Chunk{
		ID:         model.NewChunkID("old.txt", 0),
		SourceName: "old.txt",
		Seq:        0,
		Text:       "previously persisted text",
		CharCount:  25,
	}
	gt.NoError(t, durable.Notebook().AppendChunks(ctx, seeded.ID, "old.txt", []*model.Chunk{chunk})).Required()

	repo := mirror.New(cache, durable)

	got, err := repo.Notebook().Get(ctx, seeded.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, got.Chunks).Length(1).Required()
	gt.Value(t, got.Chunks[0].Text).Equal("previously persisted text")

	// The durable copy is now cached: a direct cache read succeeds.
	cached, err := cache.Notebook().Get(ctx, seeded.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, cached.Chunks).Length(1)
}

// parkedGetRepository wraps a repository and parks the first Get until
// released, so tests can hold a backfill mid-flight.
type parkedGetRepository struct {
	inner   interfaces.Repository
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

var _ interfaces.Repository = &parkedGetRepository{}

func (r *parkedGetRepository) Notebook() interfaces.NotebookRepository {
	return &parkedGetNotebooks{repo: r, inner: r.inner.Notebook()}
}

func (r *parkedGetRepository) Close() error { return r.inner.Close() }

type parkedGetNotebooks struct {
	repo  *parkedGetRepository
	inner interfaces.NotebookRepository
}

func (r *parkedGetNotebooks) Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error) {
	return r.inner.Create(ctx, notebook)
}

func (r *parkedGetNotebooks) Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	r.repo.once.Do(func() {
		close(r.repo.entered)
		<-r.repo.release
	})
	return r.inner.Get(ctx, id)
}

func (r *parkedGetNotebooks) List(ctx context.Context) ([]*model.Notebook, error) {
	return r.inner.List(ctx)
}

func (r *parkedGetNotebooks) AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error {
	return r.inner.AppendChunks(ctx, id, sourceName, chunks)
}

func TestMirrorConcurrentAppendsSurviveBackfill(t *testing.T) {
	ctx := context.Background()

	durable := memory.New()
	seeded, err := durable.Notebook().Create(ctx, &model.Notebook{Name: "shared"})
	gt.NoError(t, err).Required()

	parked := &parkedGetRepository{
		inner:   durable,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	repo := mirror.New(memory.New(), parked)

	newChunk := func(source string) []*model.Chunk {
		return []*model.Chunk{{
			ID:         model.NewChunkID(source, 0),
			SourceName: source,
			Seq:        0,
			Text:       "content of " + source,
			CharCount:  len("content of " + source),
		}}
	}

	// Writer B reads its durable snapshot first and is parked mid-backfill.
	bDone := make(chan error, 1)
	go func() {
		bDone <- repo.Notebook().AppendChunks(ctx, seeded.ID, "b.txt", newChunk("b.txt"))
	}()
	<-parked.entered

	// Writer A appends while B still holds its pre-append snapshot. B's
	// snapshot must not clobber A's append out of the cache when B resumes.
	aDone := make(chan error, 1)
	go func() {
		aDone <- repo.Notebook().AppendChunks(ctx, seeded.ID, "a.txt", newChunk("a.txt"))
	}()

	close(parked.release)
	gt.NoError(t, <-bDone).Required()
	gt.NoError(t, <-aDone).Required()

	got, err := repo.Notebook().Get(ctx, seeded.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, got.Chunks).Length(2).Required()
	gt.Array(t, got.Sources).Length(2).Required()

	names := map[string]bool{}
	for _, s := range got.Sources {
		names[s.Name] = true
	}
	gt.Bool(t, names["a.txt"]).True()
	gt.Bool(t, names["b.txt"]).True()
}

func TestMirrorListMergesBackends(t *testing.T) {
	ctx := context.Background()

	cache := memory.New()
	durable := memory.New()

	_, err := durable.Notebook().Create(ctx, &model.Notebook{Name: "durable-only"})
	gt.NoError(t, err).Required()

	repo := mirror.New(cache, durable)

	fresh, err := repo.Notebook().Create(ctx, &model.Notebook{Name: "fresh"})
	gt.NoError(t, err).Required()

	listed, err := repo.Notebook().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(2).Required()

	names := map[string]bool{}
	for _, n := range listed {
		names[n.Name] = true
	}
	gt.Bool(t, names["durable-only"]).True()
	gt.Bool(t, names["fresh"]).True()

	// The fresh notebook exists in both backends but appears once.
	found := 0
	for _, n := range listed {
		if n.ID == fresh.ID {
			found++
		}
	}
	gt.Value(t, found).Equal(1)
}
