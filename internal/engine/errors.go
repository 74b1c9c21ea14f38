package engine

import (
	"errors"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrRowOutOfRange indicates a row is outside the document.
	ErrRowOutOfRange = buffer.ErrLineOutOfRange

	// ErrColumnOutOfRange indicates a column is past the end of its line.
	ErrColumnOutOfRange = buffer.ErrColumnOutOfRange

	// ErrNothingToUndo indicates the undo journal is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrReadOnly indicates an operation was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")
)
