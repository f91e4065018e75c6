package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstash/webstash/internal/store"
)

func TestNormalizeBookmarks_WalksTree(t *testing.T) {
	roots := []BookmarkNode{
		{
			ID:    "1",
			Title: "Bookmarks Bar",
			Children: []BookmarkNode{
				{ID: "2", Title: "React Tutorial", URL: "https://react.dev/learn", DateAdded: 1700000000000},
				{
					ID:    "3",
					Title: "Dev",
					Children: []BookmarkNode{
						{ID: "4", Title: "Go Blog", URL: "https://go.dev/blog", DateAdded: 1710000000000},
					},
				},
			},
		},
	}

	items := NormalizeBookmarks(roots)
	require.Len(t, items, 2)

	assert.Equal(t, "bookmark_2", items[0].ID)
	assert.Equal(t, "React Tutorial", items[0].Title)
	assert.Equal(t, store.ItemTypeBookmark, items[0].Type)
	assert.Equal(t, int64(1700000000000), items[0].Timestamp)
	assert.Equal(t, "React Tutorial https://react.dev/learn", items[0].Content)

	assert.Equal(t, "bookmark_4", items[1].ID)
}

func TestNormalizeBookmarks_FoldersNotEmitted(t *testing.T) {
	roots := []BookmarkNode{
		{ID: "1", Title: "Empty Folder"},
	}
	assert.Empty(t, NormalizeBookmarks(roots))
}

func TestNormalizeHistory_RequiresURLAndTitle(t *testing.T) {
	entries := []HistoryEntry{
		{ID: "10", Title: "Go by Example", URL: "https://gobyexample.com", LastVisitTime: 1700000000000},
		{ID: "11", Title: "", URL: "https://untitled.example.com", LastVisitTime: 1700000000000},
		{ID: "12", Title: "No URL", URL: "", LastVisitTime: 1700000000000},
	}

	items := NormalizeHistory(entries)
	require.Len(t, items, 1)
	assert.Equal(t, "history_10", items[0].ID)
	assert.Equal(t, store.ItemTypeHistory, items[0].Type)
}

func TestNormalizeReadingList_KeyedByURL(t *testing.T) {
	entries := []ReadingListEntry{
		{Title: "Read Later", URL: "https://longform.example.com/a", CreationTime: 1700000000000},
		{Title: "", URL: "https://longform.example.com/b", CreationTime: 1700000000000},
	}

	items := NormalizeReadingList(entries)
	require.Len(t, items, 2)
	assert.Equal(t, "reading_https://longform.example.com/a", items[0].ID)
	assert.Equal(t, "reading_https://longform.example.com/b", items[1].ID)
	assert.Equal(t, "Untitled", items[1].Title)
	assert.Equal(t, store.ItemTypeReadingList, items[0].Type)
}

func TestNormalize_Defaults(t *testing.T) {
	orig := nowMillis
	nowMillis = func() int64 { return 1234567890000 }
	defer func() { nowMillis = orig }()

	items := NormalizeBookmarks([]BookmarkNode{
		{ID: "1", URL: "https://no-title.example.com"},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "Untitled", items[0].Title)
	assert.Equal(t, int64(1234567890000), items[0].Timestamp)
	assert.Equal(t, "Untitled https://no-title.example.com", items[0].Content)
}

func TestNormalizeAll_FlattensAllSources(t *testing.T) {
	items := NormalizeAll(
		[]BookmarkNode{{ID: "1", Title: "B", URL: "https://b.example.com", DateAdded: 1}},
		[]HistoryEntry{{ID: "2", Title: "H", URL: "https://h.example.com", LastVisitTime: 2}},
		[]ReadingListEntry{{Title: "R", URL: "https://r.example.com", CreationTime: 3}},
	)
	require.Len(t, items, 3)

	types := map[store.ItemType]bool{}
	for _, it := range items {
		types[it.Type] = true
		require.NoError(t, it.Validate())
	}
	assert.Len(t, types, 3)
}
