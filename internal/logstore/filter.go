package logstore

import (
	"sort"
	"strings"
)

// Filter selects entries for display. The zero Filter shows everything.
type Filter struct {
	Hidden map[string]bool // tags to exclude
	Query  string          // case-insensitive substring of the message
}

// Active reports whether the filter excludes anything at all.
func (f Filter) Active() bool {
	if strings.TrimSpace(f.Query) != "" {
		return true
	}
	for _, hidden := range f.Hidden {
		if hidden {
			return true
		}
	}
	return false
}

// Visible reports whether e passes the filter.
func (f Filter) Visible(e Entry) bool {
	if f.Hidden[e.Tag] {
		return false
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Text()), strings.ToLower(q))
}

// Apply returns the visible entries in their original order. The input is
// not modified.
func (f Filter) Apply(entries []Entry) []Entry {
	if !f.Active() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Visible(e) {
			out = append(out, e)
		}
	}
	return out
}

// Tags returns the distinct tags present in entries, sorted.
func Tags(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		seen[e.Tag] = struct{}{}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
