package logstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/debugview/internal/ansi"
)

// Predefined tags. Any string is a valid tag.
const (
	TagDebug     = "DEBUG"
	TagInfo      = "INFO"
	TagNotice    = "NOTICE"
	TagWarning   = "WARNING"
	TagError     = "ERROR"
	TagCritical  = "CRITICAL"
	TagAlert     = "ALERT"
	TagEmergency = "EMERGENCY"
)

// Source is the call site that produced an entry.
type Source struct {
	File     string
	Function string
	Line     int
}

// Entry is one captured log record. Entries are never modified once stored.
type Entry struct {
	ID        uuid.UUID // version 7, so IDs sort by creation time
	Seq       uint64    // position in the store, starting at 1
	Tag       string
	Message   string // colorized
	Plain     string // set only when the host terminal lacks color support
	Comment   string
	Timestamp time.Time
	Source    Source
}

// Text returns the message without escape codes.
func (e Entry) Text() string {
	if e.Plain != "" {
		return e.Plain
	}
	return ansi.Plain(e.Message)
}

// TimestampString formats the entry time with ten-thousandths of a second.
func (e Entry) TimestampString() string {
	return e.Timestamp.Format("15:04:05.0000")
}

// Header returns "time TAG file line function".
func (e Entry) Header() string {
	return fmt.Sprintf("%s %s %s %d %s", e.TimestampString(), e.Tag, e.Source.File, e.Source.Line, e.Source.Function)
}

// String renders the header, the optional comment and the plain message on
// separate lines.
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Header())
	b.WriteByte('\n')
	if e.Comment != "" {
		b.WriteString(e.Comment)
		b.WriteByte('\n')
	}
	b.WriteString(e.Text())
	return b.String()
}

// ColoredString is String with the colorized message.
func (e Entry) ColoredString() string {
	var b strings.Builder
	b.WriteString(e.Header())
	b.WriteByte('\n')
	if e.Comment != "" {
		b.WriteString(e.Comment)
		b.WriteByte('\n')
	}
	b.WriteString(e.Message)
	return b.String()
}
