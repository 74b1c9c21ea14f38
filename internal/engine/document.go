package engine

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/column position.
	Point = buffer.Point

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// CheckpointID identifies an undo boundary.
	CheckpointID = history.CheckpointID
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Document is the main facade for the text editor engine.
// It combines line storage, a cursor, and the undo journal into a unified,
// thread-safe API.
type Document struct {
	mu sync.RWMutex

	// Core components
	buf     *buffer.Buffer
	journal *history.Journal
	cursor  Point

	// Configuration
	lineEnding     LineEnding
	maxUndoEntries int
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a new Document with the given options.
func New(opts ...Option) *Document {
	d := newDocument(opts)
	d.buf = buffer.NewBufferFromString(d.initContent, buffer.WithLineEnding(d.lineEnding))
	return d
}

// NewFromReader creates a Document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	d := newDocument(opts)

	var err error
	d.buf, err = buffer.NewBufferFromReader(r, buffer.WithLineEnding(d.lineEnding))
	if err != nil {
		return nil, err
	}
	return d, nil
}

func newDocument(opts []Option) *Document {
	d := &Document{
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.journal = history.NewJournal(d.maxUndoEntries)
	return d
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Text()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (d *Document) LineText(row int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineText(row)
}

// Lines returns lines [start, end), clamped to the document.
func (d *Document) Lines(start, end int) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.Lines(start, end)
}

// CurrentLine returns the line the cursor is on.
func (d *Document) CurrentLine() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buf.LineText(d.cursor.Line)
}

// ============================================================================
// Cursor
// ============================================================================

// Cursor returns the cursor row and byte column.
func (d *Document) Cursor() (row, col int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cursor.Line, d.cursor.Column
}

// SetCursor moves the cursor. Columns past the end of the line are clamped.
func (d *Document) SetCursor(row, col int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if row < 0 || row >= d.buf.LineCount() {
		return ErrRowOutOfRange
	}
	col = min(max(col, 0), d.buf.LineLen(row))
	d.cursor = Point{Line: row, Column: col}
	return nil
}

// clampCursorLocked keeps the cursor inside the document after an edit.
func (d *Document) clampCursorLocked() {
	last := d.buf.LineCount() - 1
	if d.cursor.Line > last {
		d.cursor.Line = last
	}
	d.cursor.Column = min(d.cursor.Column, d.buf.LineLen(d.cursor.Line))
}

// ============================================================================
// Write Operations
// ============================================================================

// SetLines replaces rows [start, end) with lines and records the edit for undo.
func (d *Document) SetLines(start, end int, lines []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	before := d.cursor
	edit, err := d.buf.SetLines(start, end, lines)
	if err != nil {
		return err
	}
	d.journal.Record(edit, before)
	d.clampCursorLocked()
	return nil
}

// InsertText inserts text at the cursor and moves the cursor past it.
func (d *Document) InsertText(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	before := d.cursor
	end, edit, err := d.buf.InsertText(d.cursor, text)
	if err != nil {
		return err
	}
	d.journal.Record(edit, before)
	d.cursor = end
	return nil
}

// DeleteBackward removes the rune before the cursor, joining lines when the
// cursor is at column 0.
func (d *Document) DeleteBackward() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	before := d.cursor
	var start Point
	switch {
	case d.cursor.Column > 0:
		line := d.buf.LineText(d.cursor.Line)
		_, size := utf8.DecodeLastRuneInString(line[:d.cursor.Column])
		start = Point{Line: d.cursor.Line, Column: d.cursor.Column - size}
	case d.cursor.Line > 0:
		prev := d.cursor.Line - 1
		start = Point{Line: prev, Column: d.buf.LineLen(prev)}
	default:
		return nil
	}

	edit, err := d.buf.DeleteRange(start, d.cursor)
	if err != nil {
		return err
	}
	d.journal.Record(edit, before)
	d.cursor = start
	return nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Checkpoint forces an undo boundary and returns its id.
func (d *Document) Checkpoint() CheckpointID {
	return d.journal.Checkpoint()
}

// RevertTo undoes every group recorded after checkpoint id, restoring the
// cursor to where it was before the oldest reverted group.
func (d *Document) RevertTo(id CheckpointID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	cursor, ok, err := d.journal.RevertTo(id, d.buf)
	if err != nil {
		return err
	}
	if ok {
		d.cursor = cursor
	}
	d.clampCursorLocked()
	return nil
}

// Undo undoes the last group of edits.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	cursor, err := d.journal.Undo(d.buf)
	if err != nil {
		return err
	}
	d.cursor = cursor
	d.clampCursorLocked()
	return nil
}

// Redo redoes the last undone group.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return ErrReadOnly
	}

	if err := d.journal.Redo(d.buf); err != nil {
		return err
	}
	d.clampCursorLocked()
	return nil
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	return d.journal.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	return d.journal.CanRedo()
}

// ============================================================================
// Configuration
// ============================================================================

// LineEnding returns the document's line ending style.
func (d *Document) LineEnding() LineEnding {
	return d.buf.LineEnding()
}

// IsReadOnly returns true if the document rejects writes.
func (d *Document) IsReadOnly() bool {
	return d.readOnly
}
