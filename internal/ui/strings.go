package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a plain string to limit cells, adding an ellipsis.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(value, limit, "…")
}

// truncateLeft keeps the tail of value, which is the useful end of paths
// and URLs.
func truncateLeft(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if ansi.StringWidth(value) <= limit {
		return value
	}
	return ansi.TruncateLeft(value, ansi.StringWidth(value)-limit+1, "…")
}

// shortPath trims a source path to its last three components.
func shortPath(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return strings.Join(parts, "/")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// visibleRange returns the half-open window of rows to draw so that cursor
// stays on screen.
func visibleRange(cursor, total, height int) (int, int) {
	if height <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := max(cursor-height/2, 0)
	start = min(start, total-height)
	return start, start + height
}

// clamp keeps i inside [0, n).
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
