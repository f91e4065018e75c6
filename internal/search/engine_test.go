package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstash/webstash/internal/store"
)

func seedStore(t *testing.T, items []store.IndexedItem) *store.IndexStore {
	t.Helper()
	s := store.NewIndexStore(nil)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Rebuild(context.Background(), items))
	return s
}

func makeItem(id, title, url string, typ store.ItemType, ts int64) store.IndexedItem {
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

func TestEngine_EmptyQueryReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "React Tutorial", "https://react.dev", store.ItemTypeBookmark, time.Now().UnixMilli()),
	})
	e := NewEngine(s)

	assert.Empty(t, e.Search(ctx, "", 10))
	assert.Empty(t, e.Search(ctx, "   ", 10))
}

func TestEngine_EmptyIndexReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(seedStore(t, nil))

	assert.Empty(t, e.Search(ctx, "react", 10))
}

func TestEngine_SingleBookmarkScenario(t *testing.T) {
	ctx := context.Background()
	s := seedStore(t, []store.IndexedItem{
		makeItem("bookmark_42", "React Tutorial", "https://example.com/react", store.ItemTypeBookmark, time.Now().UnixMilli()),
	})
	e := NewEngine(s)

	results := e.Search(ctx, "react", 20)
	require.Len(t, results, 1)
	assert.Equal(t, "bookmark_42", results[0].Item.ID)
}

func TestEngine_ExactTitleRanksFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()

	items := []store.IndexedItem{
		makeItem("bookmark_exact", "Go Modules", "https://exact.example.com", store.ItemTypeBookmark, now),
	}
	// Plenty of substring matches that should all rank below the exact hit.
	for i := 0; i < 8; i++ {
		items = append(items, makeItem(
			fmt.Sprintf("history_%d", i),
			fmt.Sprintf("Understanding Go Modules Part %d", i),
			fmt.Sprintf("https://blog.example.com/go-modules-%d", i),
			store.ItemTypeHistory, now,
		))
	}
	e := NewEngine(seedStore(t, items))

	results := e.Search(ctx, "go modules", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "bookmark_exact", results[0].Item.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestEngine_EnumerationFiltersByType(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "A Bookmark", "https://b.example.com", store.ItemTypeBookmark, now-1000),
		makeItem("bookmark_2", "Another Bookmark", "https://b2.example.com", store.ItemTypeBookmark, now),
		makeItem("history_3", "A Visit", "https://h.example.com", store.ItemTypeHistory, now),
		makeItem("reading_4", "A Read", "https://r.example.com", store.ItemTypeReadingList, now),
	}))

	results := e.Search(ctx, "list all my bookmarks", 10)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, store.ItemTypeBookmark, r.Item.Type)
		assert.Equal(t, enumerationBaseScore, r.Score)
	}
	// Newest first.
	assert.Equal(t, "bookmark_2", results[0].Item.ID)
	assert.Equal(t, "bookmark_1", results[1].Item.ID)
}

func TestEngine_EnumerationWithoutTypeListsEverything(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "B", "https://b.example.com", store.ItemTypeBookmark, now-2),
		makeItem("history_2", "H", "https://h.example.com", store.ItemTypeHistory, now-1),
		makeItem("reading_3", "R", "https://r.example.com", store.ItemTypeReadingList, now),
	}))

	results := e.Search(ctx, "show me all saved items", 10)
	require.Len(t, results, 3)
	assert.Equal(t, "reading_3", results[0].Item.ID)
	assert.Equal(t, "history_2", results[1].Item.ID)
	assert.Equal(t, "bookmark_1", results[2].Item.ID)
}

func TestEngine_EnumerationNewestFirstForIdenticalContent(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("history_old", "Same Page", "https://same.example.com", store.ItemTypeHistory, now-60000),
		makeItem("history_new", "Same Page", "https://same.example.com", store.ItemTypeHistory, now),
	}))

	results := e.Search(ctx, "show me all history", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "history_new", results[0].Item.ID)
}

func TestEngine_EnumerationRespectsLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()

	var items []store.IndexedItem
	for i := 0; i < 10; i++ {
		items = append(items, makeItem(
			fmt.Sprintf("bookmark_%d", i), fmt.Sprintf("Entry %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			store.ItemTypeBookmark, now-int64(i),
		))
	}
	e := NewEngine(seedStore(t, items))

	results := e.Search(ctx, "list all my bookmarks", 3)
	require.Len(t, results, 3)
	assert.Equal(t, "bookmark_0", results[0].Item.ID)
}

func TestEngine_ChineseKeywordSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "机器学习入门教程", "https://ml.example.cn", store.ItemTypeBookmark, now),
		makeItem("history_2", "Cooking Recipes", "https://food.example.com", store.ItemTypeHistory, now),
	}))

	results := e.Search(ctx, "帮我查找机器学习", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "bookmark_1", results[0].Item.ID)
}

func TestEngine_MixedScriptQuery(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "React教程", "https://react.example.cn", store.ItemTypeBookmark, now),
	}))

	results := e.Search(ctx, "react教程", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "bookmark_1", results[0].Item.ID)
	// Exact title match plus recency plus bookmark bonus.
	assert.GreaterOrEqual(t, results[0].Score, scoreExactTitle)
}

func TestEngine_ScoreItem(t *testing.T) {
	now := time.Now().UnixMilli()
	old := time.Now().AddDate(0, -3, 0).UnixMilli()

	tests := []struct {
		name   string
		item   store.IndexedItem
		query  string
		expect float64
	}{
		{
			name:   "exact title recent bookmark",
			item:   makeItem("bookmark_1", "React Tutorial", "https://react.dev", store.ItemTypeBookmark, now),
			query:  "react tutorial",
			expect: scoreExactTitle + scoreTitleContains + scoreContentMatches + scoreRecent + scoreBookmarkBonus,
		},
		{
			name:   "title contains only, old history",
			item:   makeItem("history_2", "The Best React Tutorial Ever", "https://h.example.com", store.ItemTypeHistory, old),
			query:  "react tutorial",
			expect: scoreTitleContains + scoreContentMatches,
		},
		{
			name:   "url-only match",
			item:   makeItem("history_3", "Frontend Frameworks", "https://example.com/react", store.ItemTypeHistory, old),
			query:  "react",
			expect: scoreContentMatches,
		},
		{
			name:   "no textual match",
			item:   makeItem("history_4", "Cooking", "https://food.example.com", store.ItemTypeHistory, old),
			query:  "react",
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expect, scoreItem(tt.item, tt.query), 1e-9)
		})
	}
}

func TestEngine_RawMatchesCappedAtTwiceLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()

	var items []store.IndexedItem
	for i := 0; i < 20; i++ {
		items = append(items, makeItem(
			fmt.Sprintf("history_%d", i), fmt.Sprintf("Shared Topic %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			store.ItemTypeHistory, now,
		))
	}
	e := NewEngine(seedStore(t, items))

	results := e.Search(ctx, "shared", 4)
	assert.Len(t, results, 4)
}

func TestEngine_NonPositiveLimitUsesDefault(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UnixMilli()

	var items []store.IndexedItem
	for i := 0; i < 15; i++ {
		items = append(items, makeItem(
			fmt.Sprintf("history_%d", i), fmt.Sprintf("Shared Topic %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			store.ItemTypeHistory, now,
		))
	}
	e := NewEngine(seedStore(t, items))

	results := e.Search(ctx, "shared", 0)
	assert.Len(t, results, DefaultLimit)
}

func TestEngine_StopWordOnlyQueryReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(seedStore(t, []store.IndexedItem{
		makeItem("bookmark_1", "React Tutorial", "https://react.dev", store.ItemTypeBookmark, time.Now().UnixMilli()),
	}))

	assert.Empty(t, e.Search(ctx, "the for about", 10))
}
