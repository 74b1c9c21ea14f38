// Package engine provides the document a snippet session edits.
//
// The engine package serves as the facade combining line storage, a single
// cursor, and the undo journal into one thread-safe Document. It implements
// the capability set a tab-stop session needs from its host editor: cursor
// get/set, line read/write, and undo checkpoints with revert.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - buffer: line-oriented text storage with line ending normalisation
//   - history: undo journal with sealed groups and numbered checkpoints
//
// # Basic Usage
//
//	doc := engine.New(engine.WithContent("func main() {\n}"))
//
//	// Type at the cursor
//	doc.SetCursor(1, 0)
//	doc.InsertText("\treturn\n")
//
//	// Undo everything typed since the last boundary
//	doc.Undo()
//
// # Checkpoints
//
// Checkpoint forces an undo boundary and returns its id. RevertTo(id-1)
// restores the document to the state it had when the checkpoint was taken:
//
//	cp := doc.Checkpoint()
//	doc.SetLines(0, 1, []string{"changed"})
//	doc.RevertTo(cp - 1)
//
// # Read-Only Mode
//
// A read-only document rejects every write with ErrReadOnly.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrRowOutOfRange: Row outside the document
//   - ErrColumnOutOfRange: Column past the end of its line
//   - ErrNothingToUndo: Undo journal is empty
//   - ErrNothingToRedo: Redo stack is empty
//   - ErrReadOnly: Write operation on read-only document
package engine
