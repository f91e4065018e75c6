package browser

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	stasherr "github.com/webstash/webstash/internal/errors"
)

// Chrome stores timestamps as microseconds since 1601-01-01 (Windows
// epoch). The offset converts to Unix epoch milliseconds.
const chromeEpochOffsetMillis = 11644473600000

// Standard bookmark roots in the Bookmarks file. Any reading-list entries
// live under their own root when the browser syncs them there.
const (
	bookmarksFile = "Bookmarks"
	historyFile   = "History"

	readingListRootKey = "reading_list"
)

// ChromeProfile reads bookmarks, history, and the reading list from a
// Chrome/Chromium profile directory.
type ChromeProfile struct {
	dir               string
	historyRangeDays  int
	historyMaxEntries int
}

// NewChromeProfile creates a provider over the profile directory.
// rangeDays bounds how far back history reaches; maxEntries caps the
// number of history rows read.
func NewChromeProfile(dir string, rangeDays, maxEntries int) *ChromeProfile {
	return &ChromeProfile{
		dir:               dir,
		historyRangeDays:  rangeDays,
		historyMaxEntries: maxEntries,
	}
}

// chromeNode mirrors the node layout of Chrome's Bookmarks JSON file.
type chromeNode struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	URL       string       `json:"url"`
	DateAdded string       `json:"date_added"`
	Children  []chromeNode `json:"children"`
}

type chromeBookmarkFile struct {
	Roots map[string]chromeNode `json:"roots"`
}

// Bookmarks parses the profile's Bookmarks file into tree roots. The
// reading-list root, when present, is excluded; ReadingList reads it.
func (p *ChromeProfile) Bookmarks(ctx context.Context) ([]BookmarkNode, error) {
	file, err := p.readBookmarksFile()
	if err != nil {
		return nil, err
	}

	var roots []BookmarkNode
	for key, node := range file.Roots {
		if key == readingListRootKey {
			continue
		}
		roots = append(roots, convertChromeNode(node))
	}
	return roots, nil
}

// ReadingList returns the URL children of the reading-list root, when the
// profile has one.
func (p *ChromeProfile) ReadingList(ctx context.Context) ([]ReadingListEntry, error) {
	file, err := p.readBookmarksFile()
	if err != nil {
		return nil, err
	}

	root, ok := file.Roots[readingListRootKey]
	if !ok {
		return nil, nil
	}

	var entries []ReadingListEntry
	for _, child := range root.Children {
		if child.URL == "" {
			continue
		}
		entries = append(entries, ReadingListEntry{
			Title:        child.Name,
			URL:          child.URL,
			CreationTime: chromeTimeToMillis(child.DateAdded),
		})
	}
	return entries, nil
}

func (p *ChromeProfile) readBookmarksFile() (*chromeBookmarkFile, error) {
	path := filepath.Join(p.dir, bookmarksFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stasherr.SourceError(fmt.Sprintf("reading %s", path), err)
	}

	var file chromeBookmarkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, stasherr.SourceError(fmt.Sprintf("parsing %s", path), err)
	}
	return &file, nil
}

func convertChromeNode(node chromeNode) BookmarkNode {
	out := BookmarkNode{
		ID:        node.ID,
		Title:     node.Name,
		URL:       node.URL,
		DateAdded: chromeTimeToMillis(node.DateAdded),
	}
	for _, child := range node.Children {
		out.Children = append(out.Children, convertChromeNode(child))
	}
	return out
}

// History reads recent entries from the profile's History database. The
// database is copied aside first because a running browser holds it open.
func (p *ChromeProfile) History(ctx context.Context) ([]HistoryEntry, error) {
	src := filepath.Join(p.dir, historyFile)
	copied, err := copyToTemp(src)
	if err != nil {
		return nil, stasherr.SourceError(fmt.Sprintf("copying %s", src), err)
	}
	defer os.Remove(copied)

	db, err := sql.Open("sqlite", "file:"+copied+"?mode=ro")
	if err != nil {
		return nil, stasherr.SourceError("opening history database", err)
	}
	defer db.Close()

	cutoff := int64(0)
	if p.historyRangeDays > 0 {
		since := time.Now().AddDate(0, 0, -p.historyRangeDays).UnixMilli()
		cutoff = millisToChromeTime(since)
	}
	limit := p.historyMaxEntries
	if limit <= 0 {
		limit = 5000
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, url, title, last_visit_time
		FROM urls
		WHERE url != '' AND title != '' AND last_visit_time >= ?
		ORDER BY last_visit_time DESC
		LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, stasherr.SourceError("querying history database", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			id        int64
			url       string
			title     string
			lastVisit int64
		)
		if err := rows.Scan(&id, &url, &title, &lastVisit); err != nil {
			return nil, stasherr.SourceError("scanning history row", err)
		}
		entries = append(entries, HistoryEntry{
			ID:            strconv.FormatInt(id, 10),
			Title:         title,
			URL:           url,
			LastVisitTime: chromeVisitToMillis(lastVisit),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, stasherr.SourceError("iterating history rows", err)
	}
	return entries, nil
}

func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp("", "webstash-history-*.db")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

// chromeTimeToMillis converts Chrome's string-encoded microsecond
// timestamps. Zero or unparseable values map to 0 so normalization fills
// in a default.
func chromeTimeToMillis(raw string) int64 {
	t, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return chromeVisitToMillis(t)
}

func chromeVisitToMillis(t int64) int64 {
	if t <= 0 {
		return 0
	}
	ms := t/1000 - chromeEpochOffsetMillis
	if ms < 0 {
		return 0
	}
	return ms
}

func millisToChromeTime(ms int64) int64 {
	return (ms + chromeEpochOffsetMillis) * 1000
}

var (
	_ BookmarkProvider    = (*ChromeProfile)(nil)
	_ HistoryProvider     = (*ChromeProfile)(nil)
	_ ReadingListProvider = (*ChromeProfile)(nil)
)
