// Package storage provides the key-value persistence backend for WebStash.
// The engine stores raw source collections, the derived document collection,
// and the serialized-index blob here; every write is best-effort and a failed
// read degrades to an empty value.
package storage

import "context"

// Well-known keys used by the engine.
const (
	KeyItems     = "webstash:items"
	KeyIndexBlob = "webstash:index_blob"
	KeyBookmarks = "webstash:raw:bookmarks"
	KeyHistory   = "webstash:raw:history"
	KeyReading   = "webstash:raw:reading_list"
)

// KV is a minimal key-value store. Get returns ("", false, nil) for a
// missing key so callers can distinguish absence from failure.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
