package session

import "strings"

// ToAbsoluteRow converts a line index relative to the snippet's insertion
// row into a document row.
func ToAbsoluteRow(baseRow, rel int) int {
	return baseRow + rel
}

// splitText splits newline-joined text back into document rows.
func splitText(text string) []string {
	return strings.Split(text, "\n")
}

// changedRange returns the smallest row window in which old and new differ:
// rows [start, oldEnd) of old are replaced by rows [start, newEnd) of new.
func changedRange(old, new []string) (start, oldEnd, newEnd int) {
	for start < len(old) && start < len(new) && old[start] == new[start] {
		start++
	}
	oldEnd, newEnd = len(old), len(new)
	for oldEnd > start && newEnd > start && old[oldEnd-1] == new[newEnd-1] {
		oldEnd--
		newEnd--
	}
	return start, oldEnd, newEnd
}
