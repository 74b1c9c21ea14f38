package engine

import (
	"github.com/dshills/snipstorm/internal/engine/buffer"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithLineEnding sets the line ending used when the document is serialised.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = ending
	}
}

// WithMaxUndoEntries sets the maximum number of undo groups kept.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only document.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
