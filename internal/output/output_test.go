package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstash/webstash/internal/search"
	"github.com/webstash/webstash/internal/store"
)

func TestWriter_StatusAndIcons(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Success("done")
	w.Warning("careful")
	w.Errorf("failed: %s", "boom")
	w.Status("", "plain")

	out := buf.String()
	assert.Contains(t, out, "✅ done")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "   plain")
}

func TestWriter_Results(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Results([]search.SearchResult{
		{
			Item: store.IndexedItem{
				ID:        "bookmark_1",
				Title:     "React Tutorial",
				URL:       "https://react.dev",
				Type:      store.ItemTypeBookmark,
				Timestamp: 1700000000000,
			},
			Score: 10,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "1. React Tutorial")
	assert.Contains(t, out, "https://react.dev")
	assert.Contains(t, out, "bookmark")
	// Plain writer emits no ANSI codes.
	assert.NotContains(t, out, "\033[")
}

func TestWriter_ResultsColored(t *testing.T) {
	var buf bytes.Buffer
	w := &Writer{out: &buf, useColor: true}

	w.Results([]search.SearchResult{
		{
			Item: store.IndexedItem{
				ID:    "bookmark_1",
				Title: "React Tutorial",
				URL:   "https://react.dev",
				Type:  store.ItemTypeBookmark,
			},
		},
	})

	out := buf.String()
	assert.Contains(t, out, colorBold+"React Tutorial"+colorReset)
	assert.Contains(t, out, colorCyan+"https://react.dev"+colorReset)
}

func TestForWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ForWriter(&buf).useColor)

	// A regular file is an *os.File but not a terminal.
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, ForWriter(f).useColor)
}

func TestWriter_ResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Results(nil)
	assert.Contains(t, buf.String(), "no matches")
}

func TestWriter_Stats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Stats(store.Stats{DocumentCount: 42, SerializedIndexBytes: 2048})

	out := buf.String()
	assert.Contains(t, out, "documents: 42")
	assert.Contains(t, out, "2.0 KB")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "long te...", Truncate("long text that keeps going", 10))
	assert.Equal(t, "长标题内...", Truncate("长标题内容很长很长很长", 7))
}
