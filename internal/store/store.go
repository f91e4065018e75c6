package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	stasherr "github.com/webstash/webstash/internal/errors"
	"github.com/webstash/webstash/internal/storage"
)

// State is the store lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
)

// DefaultReadTimeout bounds storage reads during lazy initialization.
const DefaultReadTimeout = 2 * time.Second

// epoch bundles the text index and document map that are always swapped as
// a unit, so a concurrent search observes fully-old or fully-new state.
type epoch struct {
	index TextIndex
	docs  map[string]IndexedItem
}

func newEpoch() (*epoch, error) {
	idx, err := NewBleveTextIndex()
	if err != nil {
		return nil, err
	}
	return &epoch{index: idx, docs: make(map[string]IndexedItem)}, nil
}

// IndexStore owns the text index and the authoritative document map.
// First access lazily loads persisted documents and replays them into a
// fresh index; initialization always ends Ready, degrading to empty rather
// than blocking. Concurrent first accesses collapse via singleflight.
type IndexStore struct {
	mu    sync.RWMutex
	cur   *epoch
	state State

	sf          singleflight.Group
	kv          storage.KV
	readTimeout time.Duration
}

// Option configures an IndexStore.
type Option func(*IndexStore)

// WithReadTimeout overrides the storage read timeout for lazy init.
func WithReadTimeout(d time.Duration) Option {
	return func(s *IndexStore) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// NewIndexStore creates a store backed by kv. kv may be nil, in which case
// the store starts empty and nothing is loaded on first access.
func NewIndexStore(kv storage.KV, opts ...Option) *IndexStore {
	s := &IndexStore{
		state:       StateUninitialized,
		kv:          kv,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *IndexStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ensureReady performs lazy initialization exactly once across concurrent
// callers. It never fails: a load error degrades to an empty store.
func (s *IndexStore) ensureReady(ctx context.Context) {
	s.mu.RLock()
	ready := s.state == StateReady
	s.mu.RUnlock()
	if ready {
		return
	}

	_, _, _ = s.sf.Do("init", func() (any, error) {
		s.mu.Lock()
		if s.state == StateReady {
			s.mu.Unlock()
			return nil, nil
		}
		s.state = StateInitializing
		s.mu.Unlock()

		ep := s.loadPersisted(ctx)

		s.mu.Lock()
		s.cur = ep
		s.state = StateReady
		s.mu.Unlock()
		return nil, nil
	})
}

// loadPersisted reads the persisted document collection and replays it into
// a fresh epoch. Any failure yields an empty epoch.
func (s *IndexStore) loadPersisted(ctx context.Context) *epoch {
	empty, err := newEpoch()
	if err != nil {
		slog.Error("index_create_failed", slog.String("error", err.Error()))
		return &epoch{index: noopIndex{}, docs: make(map[string]IndexedItem)}
	}

	if s.kv == nil {
		return empty
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	blob := s.readBlob(loadCtx, storage.KeyItems)
	if blob == "" {
		// The exported index blob carries the same document set and
		// survives a partial wipe of the item collection.
		blob = s.readBlob(loadCtx, storage.KeyIndexBlob)
	}
	if blob == "" {
		return empty
	}

	ep, err := buildEpoch(ctx, decodeItems(blob))
	if err != nil {
		slog.Warn("store_replay_failed", slog.String("error", err.Error()))
		return empty
	}
	_ = empty.index.Close()
	return ep
}

// readBlob fetches one persisted key, treating any failure as absence.
func (s *IndexStore) readBlob(ctx context.Context, key string) string {
	blob, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("store_load_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
			slog.String("fallback", "empty index"))
		return ""
	}
	if !ok {
		return ""
	}
	return blob
}

// decodeItems parses a persisted item collection, returning nil on error.
func decodeItems(blob string) []IndexedItem {
	var items []IndexedItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		cerr := stasherr.CorruptIndexError("persisted item collection is corrupt", err)
		slog.Warn("items_blob_corrupt",
			slog.String("error", cerr.Error()),
			slog.String("fallback", "empty index"))
		return nil
	}
	return items
}

// buildEpoch indexes items into a fresh epoch. Malformed items are logged
// and skipped, never aborting the batch.
func buildEpoch(ctx context.Context, items []IndexedItem) (*epoch, error) {
	ep, err := newEpoch()
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if err := it.Validate(); err != nil {
			slog.Warn("item_skipped", slog.String("error", err.Error()))
			continue
		}
		if err := ep.index.Add(ctx, it.ID, it.Content); err != nil {
			slog.Warn("item_index_failed",
				slog.String("id", it.ID),
				slog.String("error", err.Error()))
			continue
		}
		ep.docs[it.ID] = it
	}
	return ep, nil
}

// Add inserts or overwrites the document and its tokenized content.
// Idempotent per id.
func (s *IndexStore) Add(ctx context.Context, item IndexedItem) error {
	if err := item.Validate(); err != nil {
		return stasherr.ValidationError(err.Error(), err)
	}
	s.ensureReady(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cur.index.Add(ctx, item.ID, item.Content); err != nil {
		return stasherr.Wrap(stasherr.ErrCodeInternal, err)
	}
	s.cur.docs[item.ID] = item
	return nil
}

// Remove deletes the document and its index entries. No-op if absent.
func (s *IndexStore) Remove(ctx context.Context, id string) error {
	s.ensureReady(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cur.index.Remove(ctx, id); err != nil {
		return stasherr.Wrap(stasherr.ErrCodeInternal, err)
	}
	delete(s.cur.docs, id)
	return nil
}

// Rebuild discards the current index and document map and constructs fresh
// ones from items, swapped in atomically. A concurrent search observes
// either fully-old or fully-new state.
func (s *IndexStore) Rebuild(ctx context.Context, items []IndexedItem) error {
	next, err := buildEpoch(ctx, items)
	if err != nil {
		return stasherr.Wrap(stasherr.ErrCodeInternal, err)
	}

	s.mu.Lock()
	old := s.cur
	s.cur = next
	s.state = StateReady
	s.mu.Unlock()

	if old != nil && old.index != nil {
		_ = old.index.Close()
	}
	return nil
}

// SearchTerm returns up to limit ids whose tokenized content has a token
// with term as a prefix. Short terms over-match by design; callers
// compensate via scoring.
func (s *IndexStore) SearchTerm(ctx context.Context, term string, limit int) ([]string, error) {
	s.ensureReady(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.index.SearchPrefix(ctx, term, limit)
}

// Get returns the document for id.
func (s *IndexStore) Get(ctx context.Context, id string) (IndexedItem, bool) {
	s.ensureReady(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.cur.docs[id]
	return it, ok
}

// All returns a copy of every document, in unspecified order.
func (s *IndexStore) All(ctx context.Context) []IndexedItem {
	s.ensureReady(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]IndexedItem, 0, len(s.cur.docs))
	for _, it := range s.cur.docs {
		items = append(items, it)
	}
	return items
}

// Export serializes the store's state to an opaque string. The blob is
// deterministic for a given document set so round-trips are comparable.
func (s *IndexStore) Export(ctx context.Context) (string, error) {
	s.ensureReady(ctx)

	s.mu.RLock()
	items := make([]IndexedItem, 0, len(s.cur.docs))
	for _, it := range s.cur.docs {
		items = append(items, it)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	data, err := json.Marshal(items)
	if err != nil {
		return "", stasherr.Wrap(stasherr.ErrCodeInternal, err)
	}
	return string(data), nil
}

// Import replaces the store's state from an exported blob. A corrupt blob
// is non-fatal: the store ends Ready with an empty index and the error is
// returned for logging.
func (s *IndexStore) Import(ctx context.Context, blob string) error {
	var items []IndexedItem
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		if rebuildErr := s.Rebuild(ctx, nil); rebuildErr != nil {
			return stasherr.Wrap(stasherr.ErrCodeInternal, rebuildErr)
		}
		return stasherr.New(stasherr.ErrCodeBlobDecode, "index blob is corrupt", err)
	}
	return s.Rebuild(ctx, items)
}

// Stats returns document count and serialized index size.
func (s *IndexStore) Stats(ctx context.Context) Stats {
	s.ensureReady(ctx)

	blob, err := s.Export(ctx)
	if err != nil {
		blob = ""
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		DocumentCount:        len(s.cur.docs),
		SerializedIndexBytes: len(blob),
	}
}

// Clear resets the store to empty. Persisted artifacts are the engine's
// responsibility.
func (s *IndexStore) Clear(ctx context.Context) error {
	return s.Rebuild(ctx, nil)
}

// Close releases the underlying index.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur != nil && s.cur.index != nil {
		return s.cur.index.Close()
	}
	return nil
}

// noopIndex keeps the store Ready when index construction itself fails;
// every search simply finds nothing.
type noopIndex struct{}

func (noopIndex) Add(context.Context, string, string) error { return nil }
func (noopIndex) Remove(context.Context, string) error      { return nil }
func (noopIndex) SearchPrefix(context.Context, string, int) ([]string, error) {
	return []string{}, nil
}
func (noopIndex) Count() (int, error) { return 0, nil }
func (noopIndex) Close() error        { return nil }

var _ TextIndex = noopIndex{}
