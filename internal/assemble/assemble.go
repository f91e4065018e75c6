// Package assemble projects ranked search results into the bounded context
// payload handed to the generation step. Pure filter+project+truncate; no
// storage or network access.
package assemble

import (
	"github.com/webstash/webstash/internal/search"
	"github.com/webstash/webstash/internal/store"
)

// SourceFilter says which source types may contribute context.
type SourceFilter struct {
	Bookmarks   bool
	History     bool
	ReadingList bool
}

// AllSources enables every source type.
func AllSources() SourceFilter {
	return SourceFilter{Bookmarks: true, History: true, ReadingList: true}
}

// Allows reports whether results of type t pass the filter.
func (f SourceFilter) Allows(t store.ItemType) bool {
	switch t {
	case store.ItemTypeBookmark:
		return f.Bookmarks
	case store.ItemTypeHistory:
		return f.History
	case store.ItemTypeReadingList:
		return f.ReadingList
	default:
		return false
	}
}

// ContextItem is one projected result in the context payload.
type ContextItem struct {
	Title     string         `json:"title"`
	URL       string         `json:"url"`
	Snippet   string         `json:"snippet"`
	Type      store.ItemType `json:"type"`
	Timestamp int64          `json:"timestamp"`
}

// Build drops results whose source type is disabled, truncates to maxItems,
// and projects the survivors. Input order is preserved.
func Build(results []search.SearchResult, filter SourceFilter, maxItems int) []ContextItem {
	if maxItems <= 0 {
		return []ContextItem{}
	}
	items := make([]ContextItem, 0, maxItems)
	for _, r := range results {
		if len(items) >= maxItems {
			break
		}
		if !filter.Allows(r.Item.Type) {
			continue
		}
		items = append(items, ContextItem{
			Title:     r.Item.Title,
			URL:       r.Item.URL,
			Snippet:   snippetOf(r.Item),
			Type:      r.Item.Type,
			Timestamp: r.Item.Timestamp,
		})
	}
	return items
}

// snippetOf prefers the precomputed snippet, falling back to truncating
// content for items ingested before snippets existed.
func snippetOf(item store.IndexedItem) string {
	if item.Snippet != "" {
		return item.Snippet
	}
	return store.BuildSnippet(item.Content)
}
