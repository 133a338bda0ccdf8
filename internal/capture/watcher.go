package capture

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/five82/debugview/internal/logstore"
	"github.com/five82/debugview/internal/logtail"
)

// Watcher tails plain-text log files into the Log store. New lines become
// entries tagged by their severity word, with the file name as comment.
type Watcher struct {
	fsw     *fsnotify.Watcher
	logs    LogAppender
	paths   []string
	offsets map[string]int64
}

// NewWatcher expands the glob patterns and starts watching every match.
// Existing content is skipped; only lines appended later are captured.
func NewWatcher(patterns []string, logs LogAppender) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		logs:    logs,
		offsets: make(map[string]int64),
	}

	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			log.Printf("watch: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("watch: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
			offset, err := logtail.End(abs)
			if err != nil {
				log.Printf("watch: read %s: %v", abs, err)
			}
			w.offsets[abs] = offset
		}
	}

	return w, nil
}

// Paths returns the files being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Start processes file events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0, ev.Op&fsnotify.Create != 0:
				w.drain(ev.Name)
			case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
				w.offsets[ev.Name] = 0
				// Rotated files often come back under the same name.
				_ = w.fsw.Add(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

// Backfill appends the last n lines of every watched file. It is meant to
// run once, before Start.
func (w *Watcher) Backfill(n int) {
	if n <= 0 {
		return
	}
	for _, path := range w.paths {
		lines, err := logtail.Read(path, n)
		if err != nil {
			log.Printf("watch: backfill %s: %v", path, err)
			continue
		}
		w.emit(path, lines)
	}
}

func (w *Watcher) drain(path string) {
	lines, offset, err := logtail.ReadFrom(path, w.offsets[path])
	w.offsets[path] = offset
	if err != nil {
		log.Printf("watch: read %s: %v", path, err)
	}
	w.emit(path, lines)
}

// emit appends lines tagged by severity, with the file name as comment.
func (w *Watcher) emit(path string, lines []string) {
	name := filepath.Base(path)
	for _, line := range lines {
		if line == "" {
			continue
		}
		w.logs.Append(logtail.Level(line), []any{line}, name, logstore.Source{File: path})
	}
}

// expandGlob resolves a glob pattern to matching file paths.
// Supports recursive patterns like /var/log/**/*.log via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
