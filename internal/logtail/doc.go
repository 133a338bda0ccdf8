// Package logtail reads plain-text log files for the inspector.
//
// # Overview
//
// Host applications often write to log files as well as calling the
// inspector directly. This package turns those files into lines the Log
// Record Store can ingest. The file watcher in package capture decides when
// to read; this package only knows how.
//
// # Reading Log Files
//
// Read extracts the last N lines from a file in one pass using a ring
// buffer, so memory stays O(maxLines) regardless of file size:
//
//  1. Allocate ring buffer of size maxLines
//  2. For each line in file:
//     - Store line at current index
//     - Increment index (wrapping at maxLines)
//     - Track total lines seen
//  3. If total < maxLines:
//     - Return first 'count' entries from buffer
//  4. If total >= maxLines:
//     - Return buffer starting from current index (oldest line)
//
// A maxLines of zero or less returns the whole file.
//
// # Following Appends
//
// ReadFrom continues from a byte offset and returns only complete lines,
// leaving a trailing partial line for the next call. When a file is
// truncated or replaced by a shorter one, the offset resets to zero:
//
//	lines, offset, err := logtail.ReadFrom(path, offset)
//
// End gives the starting offset for a file that should only be followed from
// now on. It scans backwards from the end for the last newline instead of
// reading the file.
//
// # Severity Detection
//
// Level maps the first severity word in a line onto the store's predefined
// tags. Common spellings are accepted (WARN, ERR, CRIT, FATAL, TRACE);
// lines without one are tagged INFO.
//
// # Error Handling
//
// Missing files are not errors: Read returns nil, nil and ReadFrom and End
// return a zero offset. Other I/O errors are returned wrapped.
package logtail
