package session

import (
	"errors"
	"fmt"

	"github.com/dshills/snipstorm/internal/snippet/render"
)

// Errors recorded when a session aborts. Advance never returns them; read
// them back with Session.Err.
var (
	// ErrMarkerNotFound indicates a variable's placeholder is gone from the document.
	ErrMarkerNotFound = errors.New("snippet marker not found")

	// ErrTerminalMarkerNotFound indicates the final cursor sentinel is gone.
	ErrTerminalMarkerNotFound = errors.New("snippet terminal marker not found")

	// ErrEvaluation indicates the structure evaluator failed.
	ErrEvaluation = render.ErrEvaluation
)

// MarkerNotFoundError names the variable whose placeholder could not be found.
type MarkerNotFoundError struct {
	// Index is the variable's position in traversal order, starting at 1.
	Index int
	// ID is the variable id.
	ID int
}

// Error implements the error interface.
func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("placeholder for variable %d (index %d) not found; snippet markers may have been edited", e.ID, e.Index)
}

// Unwrap returns ErrMarkerNotFound.
func (e *MarkerNotFoundError) Unwrap() error {
	return ErrMarkerNotFound
}
