package capture

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"github.com/five82/debugview/internal/logstore"
)

// SlogHandler is a slog.Handler that appends records to the Log store. The
// message is the first logged value; attributes, if any, follow as one
// structured value.
type SlogHandler struct {
	logs   LogAppender
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler returns a handler that drops records below level. A nil
// level means slog.LevelDebug.
func NewSlogHandler(logs LogAppender, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &SlogHandler{logs: logs, level: level}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	for _, a := range h.attrs {
		addAttr(attrs, a)
	}
	target := attrs
	for _, g := range h.groups {
		next := make(map[string]any)
		target[g] = next
		target = next
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(target, a)
		return true
	})
	pruneEmpty(attrs)

	values := []any{r.Message}
	if len(attrs) > 0 {
		values = append(values, attrs)
	}
	h.logs.Append(TagForLevel(r.Level), values, "", recordSource(r))
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), nest(h.groups, attrs)...)
	clone.groups = append([]string(nil), h.groups...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// TagForLevel maps slog levels onto the predefined tags.
func TagForLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError+4:
		return logstore.TagCritical
	case level >= slog.LevelError:
		return logstore.TagError
	case level >= slog.LevelWarn:
		return logstore.TagWarning
	case level >= slog.LevelInfo:
		return logstore.TagInfo
	default:
		return logstore.TagDebug
	}
}

// nest wraps attrs in the currently open groups so later groups do not
// capture them.
func nest(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	for i := len(groups) - 1; i >= 0; i-- {
		args = []any{slog.Group(groups[i], args...)}
	}
	return []slog.Attr{args[0].(slog.Attr)}
}

func addAttr(into map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}
	if v.Kind() != slog.KindGroup {
		if err, ok := v.Any().(error); ok {
			into[a.Key] = err.Error()
			return
		}
		into[a.Key] = v.Any()
		return
	}
	target := into
	if a.Key != "" {
		sub, ok := into[a.Key].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			into[a.Key] = sub
		}
		target = sub
	}
	for _, ga := range v.Group() {
		addAttr(target, ga)
	}
}

// pruneEmpty drops groups that ended up with no attributes.
func pruneEmpty(m map[string]any) {
	for k, v := range m {
		sub, ok := v.(map[string]any)
		if !ok {
			continue
		}
		pruneEmpty(sub)
		if len(sub) == 0 {
			delete(m, k)
		}
	}
}

func recordSource(r slog.Record) logstore.Source {
	if r.PC == 0 {
		return logstore.Source{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	fn := frame.Function
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		fn = fn[i+1:]
	}
	return logstore.Source{File: frame.File, Function: fn, Line: frame.Line}
}
