package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/debugview/internal/logstore"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestReadFrom_FollowsAppends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(logPath, []byte("one\ntwo\nhalf"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lines, offset, err := ReadFrom(logPath, 0)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"one", "two"}) {
		t.Fatalf("lines = %v, want [one two]", lines)
	}
	if offset != int64(len("one\ntwo\n")) {
		t.Fatalf("offset = %d, want %d", offset, len("one\ntwo\n"))
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString(" done\r\nthree\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	_ = f.Close()

	lines, offset, err = ReadFrom(logPath, offset)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"half done", "three"}) {
		t.Fatalf("lines = %v, want [half done three]", lines)
	}

	lines, _, err = ReadFrom(logPath, offset)
	if err != nil || len(lines) != 0 {
		t.Fatalf("ReadFrom() at end = %v, %v, want no lines", lines, err)
	}
}

func TestReadFrom_Truncated(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(logPath, []byte("fresh\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	lines, offset, err := ReadFrom(logPath, 4096)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"fresh"}) || offset != 6 {
		t.Fatalf("ReadFrom() = %v, %d, want [fresh], 6", lines, offset)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"2025-10-08 21:01:05 INFO [encoder] starting", logstore.TagInfo},
		{"2025-10-08 21:01:05 WARN slow progress", logstore.TagWarning},
		{"level=error msg=failed", logstore.TagInfo},
		{"[ERROR] disk full", logstore.TagError},
		{"fatal: cannot continue", logstore.TagCritical},
		{"trace something", logstore.TagDebug},
		{"NOTICE rotated", logstore.TagNotice},
		{"no severity here", logstore.TagInfo},
		{"", logstore.TagInfo},
	}
	for _, tt := range tests {
		if got := Level(tt.line); got != tt.want {
			t.Errorf("Level(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestEnd(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("x", 10000)
	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{"empty", "", 0},
		{"complete lines", "a\nbb\n", 5},
		{"trailing partial line", "a\nbb\npart", 5},
		{"no newline", "partial", 0},
		{"partial longer than one block", "a\n" + long, 2},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, fmt.Sprintf("end%d.log", i))
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write log: %v", err)
			}
			got, err := End(path)
			if err != nil {
				t.Fatalf("End() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("End() = %d, want %d", got, tt.want)
			}
		})
	}

	got, err := End(filepath.Join(dir, "missing.log"))
	if err != nil || got != 0 {
		t.Fatalf("End(missing) = %d, %v, want 0, nil", got, err)
	}
}
