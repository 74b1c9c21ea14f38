// Package history provides the undo journal for the text editor engine.
//
// Edits recorded in the journal accumulate in an open group. A group is
// sealed by Seal or Checkpoint and from then on undoes and redoes as a single
// unit, the same way one Ctrl+Z reverts everything typed since the last
// boundary.
//
// # Checkpoints
//
// Checkpoint seals the open group and returns the sequence number the next
// group will receive. Reverting to that number minus one restores the buffer
// to exactly the state it had when the checkpoint was taken:
//
//	cp := journal.Checkpoint()
//	// ... edits ...
//	journal.RevertTo(cp-1, buf)
//
// Sequence numbers keep counting when old groups are trimmed by the entry
// limit; reverting past a trimmed group fails with ErrUnknownCheckpoint.
//
// # Cursor Restoration
//
// Each group remembers the cursor position before its first edit, so undo can
// hand the caller a cursor to restore.
package history
