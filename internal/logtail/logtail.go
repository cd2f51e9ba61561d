package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const readBufferSize = 64 * 1024

// Tailer yields lines appended to a growing log file since the previous poll.
// It is not safe for concurrent use; the update loop owns it.
type Tailer struct {
	path   string
	offset int64 // bytes consumed, always at a line boundary
	size   int64 // file size seen by the previous poll
	lines  int   // complete lines consumed since the last reset
}

// New returns a Tailer for path. Nothing is read until Prime or Poll.
func New(path string) *Tailer {
	return &Tailer{path: path}
}

// Path returns the tailed file path.
func (t *Tailer) Path() string {
	return t.path
}

// Lines returns the number of complete lines consumed since the file was
// last (re)started.
func (t *Tailer) Lines() int {
	return t.lines
}

// Offset returns the byte offset of the next unread line.
func (t *Tailer) Offset() int64 {
	return t.offset
}

// Prime consumes the current file content without returning it, so history
// written before startup is not replayed as fresh events.
func (t *Tailer) Prime() error {
	_, err := t.Poll()
	return err
}

// Poll returns complete lines appended since the previous call. A missing
// or unreadable file yields no lines and no error. When the file shrank it is treated as
// truncated or rotated and read again from the start. A trailing line without
// a newline is held back until it is completed.
func (t *Tailer) Poll() ([]string, error) {
	file, err := os.Open(t.path)
	if err != nil {
		// The game may not have created or may be rotating the file.
		return nil, nil
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}

	size := info.Size()
	if size < t.size || size < t.offset {
		t.offset = 0
		t.lines = 0
	}
	t.size = size

	if size == t.offset {
		return nil, nil
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek log: %w", err)
	}

	var lines []string
	reader := bufio.NewReaderSize(file, readBufferSize)
	for {
		chunk, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lines, fmt.Errorf("read log: %w", err)
		}
		t.offset += int64(len(chunk))
		t.lines++
		lines = append(lines, strings.TrimRight(chunk, "\r\n"))
	}
	return lines, nil
}
