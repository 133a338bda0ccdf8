package capture

import (
	"bytes"
	"regexp"
	"strconv"
	"sync"

	"github.com/five82/debugview/internal/logstore"
)

// LogAppender receives log entries.
type LogAppender interface {
	Append(tag string, values []any, comment string, src logstore.Source)
}

// shortFileRe matches the "file.go:12: " prefix the log package adds with
// log.Lshortfile or log.Llongfile.
var shortFileRe = regexp.MustCompile(`^(\S+\.go):(\d+): `)

// Writer turns written text into log entries, one per line. It is meant for
// log.SetOutput, so a standard logger can be captured while the inspector
// owns the terminal. Partial lines are held until their newline arrives.
type Writer struct {
	Logs LogAppender
	Tag  string // defaults to DEBUG

	mu  sync.Mutex
	buf []byte
}

// Write implements io.Writer. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.buf = append(w.buf, p...)
	var lines [][]byte
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, append([]byte(nil), w.buf[:i]...))
		w.buf = w.buf[i+1:]
	}
	w.mu.Unlock()

	for _, line := range lines {
		w.emit(string(bytes.TrimRight(line, "\r")))
	}
	return len(p), nil
}

// Sync flushes a held partial line.
func (w *Writer) Sync() error {
	w.mu.Lock()
	rest := string(w.buf)
	w.buf = nil
	w.mu.Unlock()
	if rest != "" {
		w.emit(rest)
	}
	return nil
}

func (w *Writer) emit(line string) {
	if w.Logs == nil {
		return
	}
	tag := w.Tag
	if tag == "" {
		tag = logstore.TagDebug
	}
	var src logstore.Source
	if m := shortFileRe.FindStringSubmatch(line); m != nil {
		src.File = m[1]
		src.Line, _ = strconv.Atoi(m[2])
		line = line[len(m[0]):]
	}
	w.Logs.Append(tag, []any{line}, "", src)
}
