package buffer

import (
	"fmt"
	"slices"
)

// Edit records a replacement of a run of lines.
// Lines [Start, Start+len(Old)) held Old before the edit and
// lines [Start, Start+len(New)) hold New after it.
type Edit struct {
	Start int      // First line touched
	Old   []string // Lines that were replaced (for undo)
	New   []string // Lines that were inserted (for redo)
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("SetLines[%d:%d) -> %d lines", e.Start, e.Start+len(e.Old), len(e.New))
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return slices.Equal(e.Old, e.New)
}

// Invert returns the edit that undoes e.
func (e Edit) Invert() Edit {
	return Edit{Start: e.Start, Old: e.New, New: e.Old}
}

// Delta returns the change in line count caused by the edit.
func (e Edit) Delta() int {
	return len(e.New) - len(e.Old)
}
