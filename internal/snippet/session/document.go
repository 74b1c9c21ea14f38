package session

import "github.com/dshills/snipstorm/internal/engine/history"

// Document is the editing surface a session drives.
// Rows and columns are zero-based; columns are byte offsets.
type Document interface {
	// Cursor returns the cursor position.
	Cursor() (row, col int)

	// SetCursor moves the cursor.
	SetCursor(row, col int) error

	// CurrentLine returns the text of the cursor's row.
	CurrentLine() string

	// LineCount returns the number of rows.
	LineCount() int

	// Lines returns rows [start, end).
	Lines(start, end int) []string

	// SetLines replaces rows [start, end) with lines.
	SetLines(start, end int, lines []string) error

	// Checkpoint forces an undo boundary and returns its id.
	Checkpoint() history.CheckpointID

	// RevertTo discards every edit recorded after checkpoint id.
	RevertTo(id history.CheckpointID) error
}
