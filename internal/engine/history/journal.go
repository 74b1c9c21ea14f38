package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/snipstorm/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrUnknownCheckpoint = errors.New("checkpoint is no longer in history")
)

// DefaultMaxEntries is used when a non-positive limit is given.
const DefaultMaxEntries = 1000

// CheckpointID is a position in the journal's group numbering.
// Group n (1-based) is the n-th sealed group ever recorded.
type CheckpointID uint64

// Target is the buffer surface the journal replays edits against.
type Target interface {
	SetLines(start, end int, lines []string) (buffer.Edit, error)
}

// group is one undo unit.
type group struct {
	edits        []buffer.Edit
	cursorBefore buffer.Point
	timestamp    time.Time
}

// Journal manages undo/redo state for a buffer.
type Journal struct {
	mu sync.Mutex

	undoStack []*group
	redoStack []*group
	open      *group

	// trimmed counts groups dropped from the bottom of the undo stack.
	trimmed int

	maxEntries int
}

// NewJournal creates a new journal holding at most maxEntries groups.
func NewJournal(maxEntries int) *Journal {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Journal{
		maxEntries: maxEntries,
	}
}

// Record adds an applied edit to the open group.
// Clears the redo stack.
func (j *Journal) Record(edit buffer.Edit, cursorBefore buffer.Point) {
	if edit.IsNoOp() {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.open == nil {
		j.open = &group{cursorBefore: cursorBefore, timestamp: time.Now()}
	}
	j.open.edits = append(j.open.edits, edit)
	j.redoStack = nil
}

// Seal closes the open group, if any, making it one undo unit.
func (j *Journal) Seal() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sealLocked()
}

func (j *Journal) sealLocked() {
	if j.open == nil {
		return
	}

	j.undoStack = append(j.undoStack, j.open)
	j.open = nil

	if len(j.undoStack) > j.maxEntries {
		excess := len(j.undoStack) - j.maxEntries
		j.undoStack = j.undoStack[excess:]
		j.trimmed += excess
	}
}

// Checkpoint forces an undo boundary and returns the id of the group that
// will hold the next edits.
func (j *Journal) Checkpoint() CheckpointID {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sealLocked()
	return CheckpointID(j.trimmed + len(j.undoStack) + 1)
}

// Depth returns the sequence number of the newest sealed group.
func (j *Journal) Depth() CheckpointID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return CheckpointID(j.trimmed + len(j.undoStack))
}

// Undo reverts the newest group and returns the cursor recorded before it.
func (j *Journal) Undo(target Target) (buffer.Point, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.undoLocked(target)
}

func (j *Journal) undoLocked(target Target) (buffer.Point, error) {
	j.sealLocked()
	if len(j.undoStack) == 0 {
		return buffer.Point{}, ErrNothingToUndo
	}

	g := j.undoStack[len(j.undoStack)-1]
	for i := len(g.edits) - 1; i >= 0; i-- {
		e := g.edits[i]
		if _, err := target.SetLines(e.Start, e.Start+len(e.New), e.Old); err != nil {
			return buffer.Point{}, err
		}
	}

	j.undoStack = j.undoStack[:len(j.undoStack)-1]
	j.redoStack = append(j.redoStack, g)
	return g.cursorBefore, nil
}

// Redo re-applies the most recently undone group.
func (j *Journal) Redo(target Target) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.redoStack) == 0 {
		return ErrNothingToRedo
	}

	g := j.redoStack[len(j.redoStack)-1]
	for _, e := range g.edits {
		if _, err := target.SetLines(e.Start, e.Start+len(e.Old), e.New); err != nil {
			return err
		}
	}

	j.redoStack = j.redoStack[:len(j.redoStack)-1]
	j.undoStack = append(j.undoStack, g)
	return nil
}

// RevertTo undoes every group numbered above id. The returned cursor is the
// one recorded before the oldest reverted group; ok is false when nothing
// was reverted.
func (j *Journal) RevertTo(id CheckpointID, target Target) (cursor buffer.Point, ok bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.sealLocked()
	if int(id) < j.trimmed {
		return buffer.Point{}, false, ErrUnknownCheckpoint
	}

	for CheckpointID(j.trimmed+len(j.undoStack)) > id {
		c, err := j.undoLocked(target)
		if err != nil {
			return cursor, ok, err
		}
		cursor, ok = c, true
	}
	return cursor, ok, nil
}

// CanUndo returns true if undo is available.
func (j *Journal) CanUndo() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.undoStack) > 0 || j.open != nil
}

// CanRedo returns true if redo is available.
func (j *Journal) CanRedo() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.redoStack) > 0
}

// UndoCount returns the number of sealed groups available to undo.
func (j *Journal) UndoCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.undoStack)
}

// RedoCount returns the number of redo operations available.
func (j *Journal) RedoCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.redoStack)
}

// Clear removes all undo/redo history.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.undoStack = nil
	j.redoStack = nil
	j.open = nil
	j.trimmed = 0
}

// MaxEntries returns the maximum number of undo groups.
func (j *Journal) MaxEntries() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.maxEntries
}
