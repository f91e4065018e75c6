// Package output provides consistent CLI output formatting.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/webstash/webstash/internal/assemble"
	"github.com/webstash/webstash/internal/search"
	"github.com/webstash/webstash/internal/store"
)

// ANSI codes used when the destination is a terminal.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
	colorCyan  = "\033[36m"
)

// Writer provides formatted output for CLI commands.
type Writer struct {
	out      io.Writer
	useColor bool
}

// New creates a plain writer with colors disabled.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// NewAuto creates a writer that colors output when out is a terminal.
func NewAuto(out *os.File) *Writer {
	return &Writer{
		out:      out,
		useColor: isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()),
	}
}

// ForWriter creates a writer for an arbitrary destination, enabling color
// only when the destination is a terminal. Buffers and pipes stay plain.
func ForWriter(out io.Writer) *Writer {
	if f, ok := out.(*os.File); ok {
		return NewAuto(f)
	}
	return New(out)
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Results prints ranked search results, one block per hit.
func (w *Writer) Results(results []search.SearchResult) {
	if len(results) == 0 {
		w.Status("", "no matches")
		return
	}

	for i, r := range results {
		w.result(i+1, r)
	}
}

func (w *Writer) result(rank int, r search.SearchResult) {
	title := r.Item.Title
	if w.useColor {
		title = colorBold + title + colorReset
	}
	_, _ = fmt.Fprintf(w.out, "%2d. %s  %s\n", rank, title, w.dim(typeLabel(r.Item.Type)))
	_, _ = fmt.Fprintf(w.out, "    %s\n", w.colorize(colorCyan, r.Item.URL))
	_, _ = fmt.Fprintf(w.out, "    %s\n", w.dim(formatTimestamp(r.Item.Timestamp)))
}

// Context prints an assembled context payload.
func (w *Writer) Context(items []assemble.ContextItem) {
	for _, it := range items {
		_, _ = fmt.Fprintf(w.out, "- %s (%s)\n  %s\n", it.Title, typeLabel(it.Type), it.URL)
	}
}

// Stats prints index statistics.
func (w *Writer) Stats(stats store.Stats) {
	_, _ = fmt.Fprintf(w.out, "documents: %d\n", stats.DocumentCount)
	_, _ = fmt.Fprintf(w.out, "index size: %s\n", formatBytes(stats.SerializedIndexBytes))
}

func (w *Writer) colorize(code, s string) string {
	if !w.useColor || s == "" {
		return s
	}
	return code + s + colorReset
}

func (w *Writer) dim(s string) string {
	return w.colorize(colorDim, s)
}

func typeLabel(t store.ItemType) string {
	switch t {
	case store.ItemTypeBookmark:
		return "bookmark"
	case store.ItemTypeHistory:
		return "history"
	case store.ItemTypeReadingList:
		return "reading list"
	default:
		return string(t)
	}
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "unknown time"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Truncate shortens s to max runes for single-line display.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
