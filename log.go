package debugview

import (
	"runtime"
	"strings"

	"github.com/five82/debugview/internal/logstore"
)

// Predefined tags. Any other string is a valid tag too.
const (
	TagDebug     = logstore.TagDebug
	TagInfo      = logstore.TagInfo
	TagNotice    = logstore.TagNotice
	TagWarning   = logstore.TagWarning
	TagError     = logstore.TagError
	TagCritical  = logstore.TagCritical
	TagAlert     = logstore.TagAlert
	TagEmergency = logstore.TagEmergency
)

// Log appends values as one entry tagged tag. The caller's file, function
// and line are recorded as the entry's source. Log never blocks on
// formatting.
func (i *Inspector) Log(tag string, values ...any) {
	i.logs.Append(tag, values, "", caller(2))
}

// LogComment is Log with a comment shown above the message.
func (i *Inspector) LogComment(tag, comment string, values ...any) {
	i.logs.Append(tag, values, comment, caller(2))
}

// Debug logs values tagged DEBUG.
func (i *Inspector) Debug(values ...any) {
	i.logs.Append(TagDebug, values, "", caller(2))
}

// Info logs values tagged INFO.
func (i *Inspector) Info(values ...any) {
	i.logs.Append(TagInfo, values, "", caller(2))
}

// Warning logs values tagged WARNING.
func (i *Inspector) Warning(values ...any) {
	i.logs.Append(TagWarning, values, "", caller(2))
}

// Error logs values tagged ERROR.
func (i *Inspector) Error(values ...any) {
	i.logs.Append(TagError, values, "", caller(2))
}

// caller describes the stack frame skip levels above itself.
func caller(skip int) logstore.Source {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return logstore.Source{}
	}
	src := logstore.Source{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		src.Function = shortFunction(fn.Name())
	}
	return src
}

// shortFunction drops the import path from a qualified function name, so
// "github.com/x/y/pkg.(*T).Do" becomes "pkg.(*T).Do".
func shortFunction(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
