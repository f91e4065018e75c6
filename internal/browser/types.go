// Package browser turns raw browser-profile records into canonical indexed
// documents. Providers read the raw collections; normalization is pure and
// side-effect free.
package browser

import "context"

// BookmarkNode is one node of the bookmark tree. Folder nodes carry
// children and no URL; leaf nodes carry a URL.
type BookmarkNode struct {
	ID        string
	Title     string
	URL       string
	DateAdded int64 // epoch millis, 0 when unknown
	Children  []BookmarkNode
}

// IsFolder reports whether the node is a container rather than a link.
func (n *BookmarkNode) IsFolder() bool {
	return n.URL == ""
}

// HistoryEntry is one visited-page record.
type HistoryEntry struct {
	ID            string
	Title         string
	URL           string
	LastVisitTime int64 // epoch millis
}

// ReadingListEntry is one saved-for-later record. Entries have no native
// id; the URL is the identity.
type ReadingListEntry struct {
	Title        string
	URL          string
	CreationTime int64 // epoch millis
}

// BookmarkProvider fetches the bookmark tree roots.
type BookmarkProvider interface {
	Bookmarks(ctx context.Context) ([]BookmarkNode, error)
}

// HistoryProvider fetches recent history entries.
type HistoryProvider interface {
	History(ctx context.Context) ([]HistoryEntry, error)
}

// ReadingListProvider fetches reading-list entries.
type ReadingListProvider interface {
	ReadingList(ctx context.Context) ([]ReadingListEntry, error)
}
