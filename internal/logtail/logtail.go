package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/five82/debugview/internal/logstore"
)

const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. Missing files yield nil.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// ReadFrom returns the complete lines appended to path since offset and the
// offset just past the last of them. A trailing partial line is left for the
// next call. If the file shrank below offset it is read from the start.
func ReadFrom(path string, offset int64) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var lines []string
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, offset, nil
			}
			return lines, offset, fmt.Errorf("read log: %w", err)
		}
		offset += int64(len(chunk))
		lines = append(lines, strings.TrimRight(chunk, "\r\n"))
	}
}

// End returns the offset just past the last complete line of path, reading
// backwards from the end so large files are not loaded. Missing files yield
// zero.
func End(path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat log: %w", err)
	}

	buf := make([]byte, 4096)
	pos := info.Size()
	for pos > 0 {
		n := int64(len(buf))
		if pos < n {
			n = pos
		}
		pos -= n
		if _, err := file.ReadAt(buf[:n], pos); err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("read log: %w", err)
		}
		if i := bytes.LastIndexByte(buf[:n], '\n'); i >= 0 {
			return pos + int64(i) + 1, nil
		}
	}
	return 0, nil
}

// Level guesses the tag for a plain log line from the first severity word
// it contains.
func Level(line string) string {
	for _, field := range strings.Fields(line) {
		field = strings.Trim(field, "[]():=")
		if tag, ok := normalizeLevel(field); ok {
			return tag
		}
	}
	return logstore.TagInfo
}

// normalizeLevel maps common level spellings onto the predefined tags.
func normalizeLevel(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EMERG", "EMERGENCY", "PANIC":
		return logstore.TagEmergency, true
	case "ALERT":
		return logstore.TagAlert, true
	case "FATAL", "CRITICAL", "CRIT":
		return logstore.TagCritical, true
	case "ERROR", "ERR":
		return logstore.TagError, true
	case "WARN", "WARNING":
		return logstore.TagWarning, true
	case "NOTICE":
		return logstore.TagNotice, true
	case "INFO":
		return logstore.TagInfo, true
	case "DEBUG", "TRACE":
		return logstore.TagDebug, true
	}
	return "", false
}
