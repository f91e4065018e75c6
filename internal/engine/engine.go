// Package engine wires the providers, normalizer, index store, and query
// engine behind the retrieval surface consumers call. One engine instance
// per process, constructed explicitly and passed by reference.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/webstash/webstash/internal/assemble"
	"github.com/webstash/webstash/internal/browser"
	"github.com/webstash/webstash/internal/config"
	stasherr "github.com/webstash/webstash/internal/errors"
	"github.com/webstash/webstash/internal/search"
	"github.com/webstash/webstash/internal/storage"
	"github.com/webstash/webstash/internal/store"
)

// persistTimeout bounds each best-effort write-back.
const persistTimeout = 5 * time.Second

// Engine is the retrieval facade. All source and persistence failures are
// contained: callers see reduced results, never errors, except for invalid
// arguments.
type Engine struct {
	cfg   *config.Config
	kv    storage.KV
	store *store.IndexStore
	query *search.Engine

	bookmarks browser.BookmarkProvider
	history   browser.HistoryProvider
	reading   browser.ReadingListProvider

	persistWG sync.WaitGroup
}

// New constructs an engine. kv may be nil for a purely in-memory engine;
// any provider may be nil, which behaves as an empty source.
func New(cfg *config.Config, kv storage.KV,
	bookmarks browser.BookmarkProvider,
	history browser.HistoryProvider,
	reading browser.ReadingListProvider,
) *Engine {
	s := store.NewIndexStore(kv, store.WithReadTimeout(time.Duration(cfg.Storage.ReadTimeout)))
	return &Engine{
		cfg:       cfg,
		kv:        kv,
		store:     s,
		query:     search.NewEngine(s),
		bookmarks: bookmarks,
		history:   history,
		reading:   reading,
	}
}

// rawCollections is one wholesale fetch of all three sources.
type rawCollections struct {
	bookmarks []browser.BookmarkNode
	history   []browser.HistoryEntry
	reading   []browser.ReadingListEntry
}

// Rebuild refetches every source, normalizes, and swaps in a fresh index.
// A provider failure degrades that source to zero items; persistence is
// asynchronous and best-effort.
func (e *Engine) Rebuild(ctx context.Context) error {
	raw := e.fetchSources(ctx)
	items := browser.NormalizeAll(raw.bookmarks, raw.history, raw.reading)

	if err := e.store.Rebuild(ctx, items); err != nil {
		return err
	}

	slog.Info("rebuild_complete",
		slog.Int("bookmarks", len(raw.bookmarks)),
		slog.Int("history", len(raw.history)),
		slog.Int("reading_list", len(raw.reading)),
		slog.Int("documents", len(items)))

	e.persistAsync(raw)
	return nil
}

// fetchSources runs the three providers in parallel. Fetch failure is zero
// items for that source, never an error.
func (e *Engine) fetchSources(ctx context.Context) *rawCollections {
	raw := &rawCollections{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if e.bookmarks == nil {
			return nil
		}
		roots, err := e.bookmarks.Bookmarks(gctx)
		if err != nil {
			slog.Warn("source_fetch_failed",
				slog.String("source", "bookmarks"),
				slog.String("error", err.Error()))
			return nil
		}
		raw.bookmarks = roots
		return nil
	})
	g.Go(func() error {
		if e.history == nil {
			return nil
		}
		entries, err := e.history.History(gctx)
		if err != nil {
			slog.Warn("source_fetch_failed",
				slog.String("source", "history"),
				slog.String("error", err.Error()))
			return nil
		}
		raw.history = entries
		return nil
	})
	g.Go(func() error {
		if e.reading == nil {
			return nil
		}
		entries, err := e.reading.ReadingList(gctx)
		if err != nil {
			slog.Warn("source_fetch_failed",
				slog.String("source", "reading_list"),
				slog.String("error", err.Error()))
			return nil
		}
		raw.reading = entries
		return nil
	})
	_ = g.Wait()

	return raw
}

// Search runs a classified query. Only argument errors surface; everything
// else degrades to empty or partial results.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]search.SearchResult, error) {
	if limit < 0 {
		return nil, stasherr.New(stasherr.ErrCodeInvalidLimit, "limit must not be negative", nil)
	}
	if limit == 0 {
		limit = e.cfg.Search.DefaultLimit
	}
	if max := e.cfg.Search.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	return e.query.Search(ctx, query, limit), nil
}

// AddItem inserts or overwrites one document.
func (e *Engine) AddItem(ctx context.Context, item store.IndexedItem) error {
	if err := e.store.Add(ctx, item); err != nil {
		return err
	}
	e.persistAsync(nil)
	return nil
}

// RemoveItem deletes one document by id.
func (e *Engine) RemoveItem(ctx context.Context, id string) error {
	if id == "" {
		return stasherr.ValidationError("id must not be empty", nil)
	}
	if err := e.store.Remove(ctx, id); err != nil {
		return err
	}
	e.persistAsync(nil)
	return nil
}

// UpdateItem fully replaces a document: remove then add, no partial
// mutation.
func (e *Engine) UpdateItem(ctx context.Context, item store.IndexedItem) error {
	if err := item.Validate(); err != nil {
		return stasherr.ValidationError(err.Error(), err)
	}
	if err := e.store.Remove(ctx, item.ID); err != nil {
		return err
	}
	if err := e.store.Add(ctx, item); err != nil {
		return err
	}
	e.persistAsync(nil)
	return nil
}

// Stats reports document count and serialized index size.
func (e *Engine) Stats(ctx context.Context) store.Stats {
	return e.store.Stats(ctx)
}

// Clear resets the index and wipes persisted artifacts. Wipe failures are
// logged, not returned.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		return err
	}

	if e.kv == nil {
		return nil
	}
	wipeCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	for _, key := range []string{
		storage.KeyItems, storage.KeyIndexBlob,
		storage.KeyBookmarks, storage.KeyHistory, storage.KeyReading,
	} {
		if err := e.kv.Delete(wipeCtx, key); err != nil {
			slog.Warn("persisted_artifact_wipe_failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// BuildContext filters and projects ranked results per the source and
// context configuration.
func (e *Engine) BuildContext(results []search.SearchResult) []assemble.ContextItem {
	filter := assemble.SourceFilter{
		Bookmarks:   e.cfg.Sources.Bookmarks,
		History:     e.cfg.Sources.History,
		ReadingList: e.cfg.Sources.ReadingList,
	}
	return assemble.Build(results, filter, e.cfg.Context.MaxItems)
}

// Flush blocks until outstanding asynchronous persistence completes.
func (e *Engine) Flush() {
	e.persistWG.Wait()
}

// Close flushes persistence and releases the index. The KV store belongs
// to the caller.
func (e *Engine) Close() error {
	e.Flush()
	return e.store.Close()
}

// persistAsync writes the current document set, the index blob, and (when
// raw is non-nil) the raw collections back to storage. Failure never
// affects the in-memory operation that triggered it.
func (e *Engine) persistAsync(raw *rawCollections) {
	if e.kv == nil {
		return
	}

	e.persistWG.Add(1)
	go func() {
		defer e.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		blob, err := e.store.Export(ctx)
		if err != nil {
			slog.Warn("persist_export_failed", slog.String("error", err.Error()))
			return
		}
		e.setOrLog(ctx, storage.KeyItems, blob)
		e.setOrLog(ctx, storage.KeyIndexBlob, blob)

		if raw != nil {
			e.persistRaw(ctx, storage.KeyBookmarks, raw.bookmarks)
			e.persistRaw(ctx, storage.KeyHistory, raw.history)
			e.persistRaw(ctx, storage.KeyReading, raw.reading)
		}
	}()
}

func (e *Engine) persistRaw(ctx context.Context, key string, collection any) {
	data, err := json.Marshal(collection)
	if err != nil {
		slog.Warn("persist_encode_failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	e.setOrLog(ctx, key, string(data))
}

// setOrLog writes one key with short retries; transient storage failures
// (a locked SQLite file, mostly) usually clear within one backoff.
func (e *Engine) setOrLog(ctx context.Context, key, value string) {
	err := stasherr.Retry(ctx, stasherr.DefaultRetryConfig(), func() error {
		return e.kv.Set(ctx, key, value)
	})
	if err != nil {
		perr := stasherr.PersistenceError("write "+key, err)
		slog.Warn("persist_write_failed",
			slog.String("key", key),
			slog.String("error", perr.Error()))
	}
}
