package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line out of range")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer stores text as a slice of lines without terminators.
// A buffer always holds at least one (possibly empty) line.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	revisionID RevisionID
	lineEnding LineEnding
}

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithLineEnding sets the terminator Text joins lines with. Input is always
// split on any terminator.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = SplitLines(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything first: CRLF sequences may be split across read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// SplitLines splits text into lines, accepting any line ending style.
// The result always has at least one element.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line (without newline).
// Returns an empty string if the line does not exist.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line int) int {
	return len(b.LineText(line))
}

// Lines returns a copy of lines [start, end). The range is clamped to the
// buffer, so callers may pass LineCount() or larger as end.
func (b *Buffer) Lines(start, end int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start = max(start, 0)
	end = min(end, len(b.lines))
	if start >= end {
		return nil
	}

	out := make([]string, end-start)
	copy(out, b.lines[start:end])
	return out
}

// Write Operations

// SetLines replaces lines [start, end) with lines. Elements of lines that
// contain line breaks are split, so callers can pass joined text.
// Returns the edit that was performed.
func (b *Buffer) SetLines(start, end int, lines []string) (Edit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setLinesLocked(start, end, lines)
}

func (b *Buffer) setLinesLocked(start, end int, lines []string) (Edit, error) {
	if start < 0 || end > len(b.lines) {
		return Edit{}, ErrLineOutOfRange
	}
	if start > end {
		return Edit{}, ErrRangeInvalid
	}

	newLines := make([]string, 0, len(lines))
	for _, l := range lines {
		newLines = append(newLines, SplitLines(l)...)
	}

	// The buffer never becomes completely empty.
	if start == 0 && end == len(b.lines) && len(newLines) == 0 {
		newLines = []string{""}
	}

	old := make([]string, end-start)
	copy(old, b.lines[start:end])

	result := make([]string, 0, len(b.lines)-len(old)+len(newLines))
	result = append(result, b.lines[:start]...)
	result = append(result, newLines...)
	result = append(result, b.lines[end:]...)
	b.lines = result
	b.revisionID = NewRevisionID()

	return Edit{Start: start, Old: old, New: newLines}, nil
}

// InsertText splices text into the buffer at p.
// Returns the point just after the inserted text and the edit performed.
func (b *Buffer) InsertText(p Point, text string) (Point, Edit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Line < 0 || p.Line >= len(b.lines) {
		return Point{}, Edit{}, ErrLineOutOfRange
	}
	line := b.lines[p.Line]
	if p.Column < 0 || p.Column > len(line) {
		return Point{}, Edit{}, ErrColumnOutOfRange
	}

	parts := SplitLines(line[:p.Column] + text)
	last := len(parts) - 1
	end := Point{Line: p.Line + last, Column: len(parts[last])}
	parts[last] += line[p.Column:]

	edit, err := b.setLinesLocked(p.Line, p.Line+1, parts)
	if err != nil {
		return Point{}, Edit{}, err
	}
	return end, edit, nil
}

// DeleteRange removes the text between start (inclusive) and end (exclusive).
// A range ending at column 0 of the following line removes the line break.
func (b *Buffer) DeleteRange(start, end Point) (Edit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if end.Before(start) {
		return Edit{}, ErrRangeInvalid
	}
	if start.Line < 0 || end.Line >= len(b.lines) {
		return Edit{}, ErrLineOutOfRange
	}
	if start.Column < 0 || start.Column > len(b.lines[start.Line]) ||
		end.Column < 0 || end.Column > len(b.lines[end.Line]) {
		return Edit{}, ErrColumnOutOfRange
	}

	joined := b.lines[start.Line][:start.Column] + b.lines[end.Line][end.Column:]
	return b.setLinesLocked(start.Line, end.Line+1, []string{joined})
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer holds a single empty line.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding sets the line ending used by Text.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}
