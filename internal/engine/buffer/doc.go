// Package buffer provides a thread-safe, line-oriented text buffer. It is the
// storage layer underneath the engine's Document and is shaped around the
// operations a tab-stop snippet session performs: reading a run of lines,
// replacing a run of lines, and splicing text at a line/column position.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("func main() {\n}")
//
//	// Replace line 0 with two lines
//	edit, _ := buf.SetLines(0, 1, []string{"// entry point", "func main() {"})
//
//	// Splice text at a position
//	end, _, _ := buf.InsertText(buffer.Point{Line: 2, Column: 0}, "\treturn\n")
//
// Every mutation returns the Edit it performed. Edits are self-describing
// (start line, old lines, new lines) so a journal can invert them without
// consulting the buffer again.
//
// Position Types:
//
//   - Point: Line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock.
package buffer
