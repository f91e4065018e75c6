// Package store owns the canonical document map and the searchable text
// index over browser-derived records. This is the authoritative in-memory
// state; the key-value backend only sees snapshots of it.
package store

import (
	"context"
	"fmt"
	"strings"
)

// ItemType identifies the source a document came from.
type ItemType string

const (
	ItemTypeBookmark    ItemType = "bookmark"
	ItemTypeHistory     ItemType = "history"
	ItemTypeReadingList ItemType = "reading-list"
)

// ID prefixes, one per source. IDs are globally unique by construction.
const (
	IDPrefixBookmark = "bookmark_"
	IDPrefixHistory  = "history_"
	IDPrefixReading  = "reading_"
)

// SnippetLength is the maximum snippet size in characters.
const SnippetLength = 200

// IndexedItem is the canonical normalized document used for search.
// Timestamp semantics differ per source: dateAdded for bookmarks,
// lastVisitTime for history, creationTime for reading-list entries.
type IndexedItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Content   string   `json:"content"`
	Type      ItemType `json:"type"`
	Timestamp int64    `json:"timestamp"` // epoch millis
	Snippet   string   `json:"snippet"`
}

// Validate reports whether the item can be indexed.
func (it *IndexedItem) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("item has empty id")
	}
	switch it.Type {
	case ItemTypeBookmark, ItemTypeHistory, ItemTypeReadingList:
	default:
		return fmt.Errorf("item %s has unknown type %q", it.ID, it.Type)
	}
	if it.URL != "" && it.Content == "" {
		return fmt.Errorf("item %s has url but empty content", it.ID)
	}
	return nil
}

// BuildContent joins title and url into the indexed content field.
func BuildContent(title, url string) string {
	return strings.TrimSpace(title + " " + url)
}

// BuildSnippet truncates content to SnippetLength characters, appending an
// ellipsis when truncated. Truncation counts runes so CJK text is not cut
// mid-character.
func BuildSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= SnippetLength {
		return content
	}
	return string(runes[:SnippetLength]) + "..."
}

// Stats describes the store for the engine's getStats surface.
type Stats struct {
	DocumentCount        int `json:"document_count"`
	SerializedIndexBytes int `json:"serialized_index_bytes"`
}

// TextIndex is the searchable index over tokenized item content.
// Any structure satisfying add/remove/search semantics is acceptable;
// the store treats it as a black box.
type TextIndex interface {
	// Add inserts or replaces the tokenized content for id.
	Add(ctx context.Context, id, content string) error

	// Remove deletes id from the index; removing a missing id is a no-op.
	Remove(ctx context.Context, id string) error

	// SearchPrefix returns up to limit ids whose tokenized content has a
	// token with term as a prefix.
	SearchPrefix(ctx context.Context, term string, limit int) ([]string, error)

	// Count returns the number of indexed documents.
	Count() (int, error)

	// Close releases index resources.
	Close() error
}
