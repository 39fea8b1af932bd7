package mirror

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelens-lab/notelens/pkg/domain/interfaces"
	"github.com/notelens-lab/notelens/pkg/domain/model"
	"github.com/notelens-lab/notelens/pkg/domain/types"
	"github.com/notelens-lab/notelens/pkg/utils/logging"
)

// Mirror composes a fast cache repository (authoritative for this process)
// with a durable backend. Writes land in the cache first and are then
// propagated to the durable backend best-effort: a durable write failure is
// logged and swallowed, never surfaced to the caller. Reads consult the cache
// and fall back to the durable backend on a miss, backfilling the cache.
type Mirror struct {
	cache    interfaces.Repository
	durable  interfaces.Repository
	notebook *notebookMirror
}

var _ interfaces.Repository = &Mirror{}

func New(cache, durable interfaces.Repository) *Mirror {
	return &Mirror{
		cache:   cache,
		durable: durable,
		notebook: &notebookMirror{
			cache:   cache.Notebook(),
			durable: durable.Notebook(),
		},
	}
}

func (m *Mirror) Notebook() interfaces.NotebookRepository {
	return m.notebook
}

func (m *Mirror) Close() error {
	cacheErr := m.cache.Close()
	durableErr := m.durable.Close()
	if cacheErr != nil {
		return cacheErr
	}
	return durableErr
}

type notebookMirror struct {
	cache   interfaces.NotebookRepository
	durable interfaces.NotebookRepository

	// backfillMu serializes first-touch backfills. Without it, a stale durable
	// snapshot could be created over a cache entry that a concurrent append
	// already populated, dropping that append from the authoritative cache.
	backfillMu sync.Mutex
}

func (r *notebookMirror) Create(ctx context.Context, notebook *model.Notebook) (*model.Notebook, error) {
	created, err := r.cache.Create(ctx, notebook)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create notebook in cache")
	}

	if _, err := r.durable.Create(ctx, created); err != nil {
		logging.From(ctx).Warn("durable notebook write failed, in-memory state remains authoritative",
			"notebook_id", created.ID, "error", err)
	}

	return created, nil
}

func (r *notebookMirror) Get(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	notebook, err := r.cache.Get(ctx, id)
	if err == nil {
		return notebook, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}

	return r.backfill(ctx, id)
}

// backfill loads a durable-only notebook into the cache. The snapshot carries
// its chunks, so subsequent reads stay in memory. The cache is re-checked
// under the lock: a concurrent backfill may have won the race, and its cache
// entry may already hold appends that a stale snapshot must not clobber.
func (r *notebookMirror) backfill(ctx context.Context, id types.NotebookID) (*model.Notebook, error) {
	r.backfillMu.Lock()
	defer r.backfillMu.Unlock()

	notebook, err := r.cache.Get(ctx, id)
	if err == nil {
		return notebook, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}

	notebook, err = r.durable.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.cache.Create(ctx, notebook); err != nil {
		logging.From(ctx).Warn("failed to backfill notebook cache", "notebook_id", id, "error", err)
	}

	return notebook, nil
}

func (r *notebookMirror) List(ctx context.Context) ([]*model.Notebook, error) {
	cached, err := r.cache.List(ctx)
	if err != nil {
		return nil, err
	}

	persisted, err := r.durable.List(ctx)
	if err != nil {
		logging.From(ctx).Warn("durable notebook list failed, serving cache only", "error", err)
		return cached, nil
	}

	// The durable backend may know notebooks from before this process
	// started; the cache wins for anything it holds.
	merged := make([]*model.Notebook, 0, len(persisted))
	inCache := make(map[types.NotebookID]bool, len(cached))
	for _, n := range cached {
		inCache[n.ID] = true
	}
	for _, n := range persisted {
		if !inCache[n.ID] {
			merged = append(merged, n)
		}
	}
	merged = append(merged, cached...)

	return merged, nil
}

func (r *notebookMirror) AppendChunks(ctx context.Context, id types.NotebookID, sourceName string, chunks []*model.Chunk) error {
	// A notebook known only to the durable backend must be cached first so
	// the authoritative append does not miss.
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	if err := r.cache.AppendChunks(ctx, id, sourceName, chunks); err != nil {
		return goerr.Wrap(err, "failed to append chunks to cache", goerr.V("id", id))
	}

	if err := r.durable.AppendChunks(ctx, id, sourceName, chunks); err != nil {
		logging.From(ctx).Warn("durable chunk write failed, in-memory state remains authoritative",
			"notebook_id", id, "source", sourceName, "error", err)
	}

	return nil
}
