package browser

import (
	"time"

	"github.com/webstash/webstash/internal/store"
)

// untitled substitutes for records that carry no title.
const untitled = "Untitled"

// nowMillis is swapped in tests to pin the missing-timestamp default.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// NormalizeBookmarks walks the bookmark tree roots and emits one document
// per URL-bearing node. Folders are traversed but never emitted.
func NormalizeBookmarks(roots []BookmarkNode) []store.IndexedItem {
	var items []store.IndexedItem
	for i := range roots {
		items = walkBookmarks(&roots[i], items)
	}
	return items
}

func walkBookmarks(node *BookmarkNode, items []store.IndexedItem) []store.IndexedItem {
	if !node.IsFolder() {
		items = append(items, newItem(
			store.IDPrefixBookmark+node.ID,
			node.Title, node.URL,
			store.ItemTypeBookmark,
			node.DateAdded,
		))
	}
	for i := range node.Children {
		items = walkBookmarks(&node.Children[i], items)
	}
	return items
}

// NormalizeHistory keeps only entries with both a URL and a title; bare
// redirects and untitled navigations carry no searchable text.
func NormalizeHistory(entries []HistoryEntry) []store.IndexedItem {
	var items []store.IndexedItem
	for _, e := range entries {
		if e.URL == "" || e.Title == "" {
			continue
		}
		items = append(items, newItem(
			store.IDPrefixHistory+e.ID,
			e.Title, e.URL,
			store.ItemTypeHistory,
			e.LastVisitTime,
		))
	}
	return items
}

// NormalizeReadingList emits every entry unconditionally. Entries have no
// native id, so the URL is the identity: an entry whose URL changes becomes
// a new document rather than an update.
func NormalizeReadingList(entries []ReadingListEntry) []store.IndexedItem {
	var items []store.IndexedItem
	for _, e := range entries {
		items = append(items, newItem(
			store.IDPrefixReading+e.URL,
			e.Title, e.URL,
			store.ItemTypeReadingList,
			e.CreationTime,
		))
	}
	return items
}

// NormalizeAll flattens all three source collections into one document
// sequence. Order is unspecified.
func NormalizeAll(roots []BookmarkNode, history []HistoryEntry, reading []ReadingListEntry) []store.IndexedItem {
	items := NormalizeBookmarks(roots)
	items = append(items, NormalizeHistory(history)...)
	items = append(items, NormalizeReadingList(reading)...)
	return items
}

func newItem(id, title, url string, typ store.ItemType, ts int64) store.IndexedItem {
	if title == "" {
		title = untitled
	}
	if ts == 0 {
		ts = nowMillis()
	}
	content := store.BuildContent(title, url)
	return store.IndexedItem{
		ID:        id,
		Title:     title,
		URL:       url,
		Content:   content,
		Type:      typ,
		Timestamp: ts,
		Snippet:   store.BuildSnippet(content),
	}
}
