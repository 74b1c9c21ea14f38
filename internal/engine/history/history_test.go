package history

import (
	"errors"
	"testing"

	"github.com/dshills/snipstorm/internal/engine/buffer"
)

// Helper to apply and record an edit in one step
func setLines(t *testing.T, j *Journal, buf *buffer.Buffer, start, end int, lines ...string) {
	t.Helper()
	edit, err := buf.SetLines(start, end, lines)
	if err != nil {
		t.Fatalf("SetLines failed: %v", err)
	}
	j.Record(edit, buffer.Point{Line: start})
}

func TestJournalUndoRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("a\nb")
	j := NewJournal(10)

	setLines(t, j, buf, 0, 1, "x")
	setLines(t, j, buf, 1, 2, "y", "z")
	if buf.Text() != "x\ny\nz" {
		t.Fatalf("unexpected text %q", buf.Text())
	}

	// Both edits belong to one open group.
	if _, err := j.Undo(buf); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if buf.Text() != "a\nb" {
		t.Errorf("expected original text, got %q", buf.Text())
	}

	if err := j.Redo(buf); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if buf.Text() != "x\ny\nz" {
		t.Errorf("expected redone text, got %q", buf.Text())
	}
}

func TestJournalNothingToUndo(t *testing.T) {
	j := NewJournal(0)
	buf := buffer.NewBuffer()

	if _, err := j.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := j.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if j.MaxEntries() != DefaultMaxEntries {
		t.Errorf("expected default max entries, got %d", j.MaxEntries())
	}
}

func TestJournalCheckpointNumbering(t *testing.T) {
	buf := buffer.NewBuffer()
	j := NewJournal(10)

	if cp := j.Checkpoint(); cp != 1 {
		t.Errorf("first checkpoint on empty journal should be 1, got %d", cp)
	}

	setLines(t, j, buf, 0, 1, "one")
	cp := j.Checkpoint()
	if cp != 2 {
		t.Errorf("expected checkpoint 2, got %d", cp)
	}

	// Checkpoint without edits in between does not advance.
	if again := j.Checkpoint(); again != cp {
		t.Errorf("expected repeated checkpoint %d, got %d", cp, again)
	}
}

func TestJournalRevertToCheckpoint(t *testing.T) {
	buf := buffer.NewBufferFromString("start")
	j := NewJournal(10)

	setLines(t, j, buf, 0, 1, "first")
	cp := j.Checkpoint()

	setLines(t, j, buf, 0, 1, "second")
	j.Seal()
	setLines(t, j, buf, 0, 1, "third")

	cursor, ok, err := j.RevertTo(cp-1, buf)
	if err != nil {
		t.Fatalf("RevertTo failed: %v", err)
	}
	if !ok {
		t.Error("expected groups to be reverted")
	}
	if buf.Text() != "first" {
		t.Errorf("expected state at checkpoint, got %q", buf.Text())
	}
	if cursor != (buffer.Point{Line: 0}) {
		t.Errorf("unexpected cursor %v", cursor)
	}
	if j.Depth() != cp-1 {
		t.Errorf("expected depth %d, got %d", cp-1, j.Depth())
	}
}

func TestJournalRevertToCurrentIsNoOp(t *testing.T) {
	buf := buffer.NewBufferFromString("x")
	j := NewJournal(10)

	setLines(t, j, buf, 0, 1, "y")
	cp := j.Checkpoint()

	_, ok, err := j.RevertTo(cp-1, buf)
	if err != nil {
		t.Fatalf("RevertTo failed: %v", err)
	}
	if ok {
		t.Error("nothing should have been reverted")
	}
	if buf.Text() != "y" {
		t.Errorf("expected text unchanged, got %q", buf.Text())
	}
}

func TestJournalTrimKeepsNumbering(t *testing.T) {
	buf := buffer.NewBufferFromString("0")
	j := NewJournal(2)

	for _, s := range []string{"1", "2", "3", "4"} {
		setLines(t, j, buf, 0, 1, s)
		j.Seal()
	}

	if j.UndoCount() != 2 {
		t.Errorf("expected 2 groups after trim, got %d", j.UndoCount())
	}
	if j.Depth() != 4 {
		t.Errorf("expected depth 4, got %d", j.Depth())
	}

	if _, _, err := j.RevertTo(3, buf); err != nil {
		t.Fatalf("RevertTo(3) failed: %v", err)
	}
	if buf.Text() != "3" {
		t.Errorf("expected '3', got %q", buf.Text())
	}

	if _, _, err := j.RevertTo(1, buf); !errors.Is(err, ErrUnknownCheckpoint) {
		t.Errorf("expected ErrUnknownCheckpoint, got %v", err)
	}
}

func TestJournalRecordClearsRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("a")
	j := NewJournal(10)

	setLines(t, j, buf, 0, 1, "b")
	if _, err := j.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if !j.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	setLines(t, j, buf, 0, 1, "c")
	if j.CanRedo() {
		t.Error("recording a new edit should clear redo")
	}
}

func TestJournalIgnoresNoOp(t *testing.T) {
	j := NewJournal(10)
	j.Record(buffer.Edit{Start: 0, Old: []string{"a"}, New: []string{"a"}}, buffer.Point{})

	if j.CanUndo() {
		t.Error("no-op edit should not be recorded")
	}
}
