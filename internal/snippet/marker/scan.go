package marker

import "strings"

// Span locates a placeholder inside a text. All offsets are byte offsets.
type Span struct {
	Start      int // first byte of the opening delimiter
	End        int // one past the last byte of the closing delimiter
	InnerStart int // first byte of the inner text
	InnerEnd   int // one past the last byte of the inner text
}

// Inner returns the placeholder's inner text.
func (s Span) Inner(text string) string {
	return text[s.InnerStart:s.InnerEnd]
}

// Pos is a line/column position relative to the first scanned line.
type Pos struct {
	Line int
	Col  int
}

// OffsetToPos converts a byte offset in newline-joined text to a position.
func OffsetToPos(text string, off int) Pos {
	off = min(max(off, 0), len(text))
	prefix := text[:off]
	line := strings.Count(prefix, "\n")
	col := off
	if i := strings.LastIndexByte(prefix, '\n'); i >= 0 {
		col = off - i - 1
	}
	return Pos{Line: line, Col: col}
}

// FindPlaceholder returns the first placeholder for id starting at or after
// byte offset from.
func (c *Codec) FindPlaceholder(text string, id, from int) (Span, bool) {
	if from < 0 || from > len(text) {
		return Span{}, false
	}

	head := c.placeholderHead(id)
	i := strings.Index(text[from:], head)
	if i < 0 {
		return Span{}, false
	}
	start := from + i
	innerStart := start + len(head)

	j := strings.Index(text[innerStart:], c.close)
	if j < 0 {
		return Span{}, false
	}
	innerEnd := innerStart + j

	return Span{
		Start:      start,
		End:        innerEnd + len(c.close),
		InnerStart: innerStart,
		InnerEnd:   innerEnd,
	}, true
}

// Capture is what the user currently has inside a placeholder.
type Capture struct {
	Text string

	// Span holds byte offsets into the newline-joined lines.
	Span Span

	Start      Pos // opening delimiter
	End        Pos // just past the closing delimiter
	InnerStart Pos
	InnerEnd   Pos
}

// ExtractUserInput scans a snapshot of lines for the first placeholder of id
// and returns its inner text with line/column ranges relative to lines[0].
// The placeholder may span several lines.
func (c *Codec) ExtractUserInput(lines []string, id int) (Capture, bool) {
	text := strings.Join(lines, "\n")
	span, ok := c.FindPlaceholder(text, id, 0)
	if !ok {
		return Capture{}, false
	}
	return Capture{
		Text:       span.Inner(text),
		Span:       span,
		Start:      OffsetToPos(text, span.Start),
		End:        OffsetToPos(text, span.End),
		InnerStart: OffsetToPos(text, span.InnerStart),
		InnerEnd:   OffsetToPos(text, span.InnerEnd),
	}, true
}

// ReplaceOccurrences replaces successive replacement markers of id found at
// or after byte offset from. repl receives the zero-based occurrence number
// and returns the substitute; returning false stops the scan. Returns the new
// text and the number of markers replaced.
func (c *Codec) ReplaceOccurrences(text string, id, from int, repl func(k int) (string, bool)) (string, int) {
	if from < 0 || from > len(text) {
		return text, 0
	}

	m := c.Replacement(id)
	var sb strings.Builder
	sb.WriteString(text[:from])

	pos := from
	k := 0
	for {
		i := strings.Index(text[pos:], m)
		if i < 0 {
			break
		}
		sub, ok := repl(k)
		if !ok {
			break
		}
		sb.WriteString(text[pos : pos+i])
		sb.WriteString(sub)
		pos += i + len(m)
		k++
	}
	sb.WriteString(text[pos:])
	return sb.String(), k
}

// ReplaceMarker replaces the first occurrence of marker at or after from.
// Returns the new text, the offset just past the substitute, and whether the
// marker was found.
func ReplaceMarker(text, marker, sub string, from int) (string, int, bool) {
	if from < 0 || from > len(text) {
		return text, from, false
	}
	i := strings.Index(text[from:], marker)
	if i < 0 {
		return text, from, false
	}
	at := from + i
	return text[:at] + sub + text[at+len(marker):], at + len(sub), true
}

// StripTerminal removes the first terminal marker and reports the byte
// offset it occupied.
func (c *Codec) StripTerminal(text string) (string, int, bool) {
	out, _, ok := ReplaceMarker(text, c.Terminal(), "", 0)
	if !ok {
		return text, -1, false
	}
	return out, strings.Index(text, c.Terminal()), true
}
