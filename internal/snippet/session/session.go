// Package session drives the tab-stop traversal of an inserted snippet.
//
// Begin renders a snippet, inserts it at the document cursor and moves onto
// the first variable. Each call to Advance then moves between variables:
//
//   - forward, the variable being left is read back from the document, the
//     structure is re-rendered with it and every occurrence of the variable
//     is rewritten; the next variable's placeholder is then refreshed with
//     its default text and the cursor placed after it;
//   - backward, the document is reverted to the undo checkpoint taken when
//     the current variable was entered.
//
// After the last variable the remaining post-transform markers are filled
// in, the terminal marker is removed and the cursor moves to where it was.
//
// The session never panics or returns errors from Advance. A missing marker
// or a failing evaluator aborts the session; the cause is available from Err
// and is logged as a warning. A session is driven from one goroutine.
package session

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/snipstorm/internal/engine/history"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/marker"
	"github.com/dshills/snipstorm/internal/snippet/render"
	"github.com/dshills/snipstorm/internal/snippet/structure"
)

// Session is one snippet expansion in progress.
type Session struct {
	id       uuid.UUID
	doc      Document
	codec    *marker.Codec
	logger   *logging.Logger
	renderer *render.Renderer
	inputs   []structure.Input

	// baseRow is the row the snippet was inserted on. Markers are only
	// searched for at or below it.
	baseRow int

	// index is 0 before the first variable, 1..N on a variable and N+1
	// once the terminal pass has run.
	index       int
	resolved    structure.Values
	checkpoints []history.CheckpointID

	aborted bool
	done    bool
	err     error
}

// Begin inserts the snippet described by eval at the document cursor and
// moves onto its first variable. A snippet without variables is completed
// immediately. Begin fails only if the snippet cannot be rendered or
// inserted, in which case the document is left untouched.
func Begin(doc Document, eval structure.Evaluator, opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.New(),
		doc:      doc,
		codec:    marker.Default(),
		logger:   logging.Default(),
		resolved: make(structure.Values),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("snippet").WithField("session", s.id.String())

	r, err := render.New(eval, s.codec)
	if err != nil {
		return nil, err
	}
	s.renderer = r
	s.inputs = r.Inputs()

	rendering, err := r.Render(s.resolved)
	if err != nil {
		return nil, err
	}

	row, col := doc.Cursor()
	line := doc.CurrentLine()
	col = min(max(col, 0), len(line))
	text := line[:col] + rendering.Body() + line[col:]
	if err := doc.SetLines(row, row+1, splitText(text)); err != nil {
		return nil, fmt.Errorf("inserting snippet: %w", err)
	}
	s.baseRow = row
	s.logger.Debug("inserted snippet with %d variables at %d:%d", len(s.inputs), row, col)

	s.Advance(1)
	return s, nil
}

// Advance moves offset variables forward (positive) or backward (negative),
// one variable at a time. Moving past the last variable completes the
// snippet; moving before the first aborts it. Advance reports whether the
// session has ended, either completed or aborted. An ended session ignores
// further calls.
func (s *Session) Advance(offset int) bool {
	for ; offset > 0 && !s.Ended(); offset-- {
		s.forward()
	}
	for ; offset < 0 && !s.Ended(); offset++ {
		s.backward()
	}
	return s.Ended()
}

// Ended reports whether the session completed or aborted.
func (s *Session) Ended() bool {
	return s.aborted || s.done
}

func (s *Session) forward() {
	next := s.index + 1

	// The checkpoint precedes resolving the variable being left, so going
	// back restores the user's text in its placeholder.
	var cp history.CheckpointID
	if next <= len(s.inputs) {
		cp = s.doc.Checkpoint()
	}

	if s.index >= 1 && !s.resolve(s.index) {
		return
	}

	s.index = next
	if next > len(s.inputs) {
		s.finish()
		return
	}
	if s.land(next) {
		s.checkpoints = append(s.checkpoints, cp)
	}
}

func (s *Session) backward() {
	if len(s.checkpoints) == 0 {
		s.index = 0
		s.aborted = true
		return
	}

	cp := s.checkpoints[len(s.checkpoints)-1]
	s.checkpoints = s.checkpoints[:len(s.checkpoints)-1]
	if err := s.doc.RevertTo(cp - 1); err != nil {
		s.abort(fmt.Errorf("reverting to checkpoint %d: %w", cp-1, err))
		return
	}

	s.index--
	if s.index == 0 {
		s.aborted = true
		s.logger.Debug("left snippet before its first variable")
		return
	}
	s.land(s.index)
}

// resolve reads variable p back from its placeholder and rewrites every
// occurrence of it.
func (s *Session) resolve(p int) bool {
	in := s.inputs[p-1]
	text, lines := s.snapshot()

	capture, ok := s.codec.ExtractUserInput(lines, in.ID)
	if !ok {
		s.abort(&MarkerNotFoundError{Index: p, ID: in.ID})
		return false
	}
	span := capture.Span
	s.resolved[in.ID] = capture.Text
	s.logger.Debug("variable %d captured %q from %d:%d to %d:%d", in.ID, capture.Text,
		ToAbsoluteRow(s.baseRow, capture.InnerStart.Line), capture.InnerStart.Col,
		ToAbsoluteRow(s.baseRow, capture.InnerEnd.Line), capture.InnerEnd.Col)

	rendering, err := s.renderer.Render(s.resolved)
	if err != nil {
		s.abort(fmt.Errorf("resolving variable %d: %w", in.ID, err))
		return false
	}

	sub := rendering.Slots[in.FirstIndex]
	text = text[:span.Start] + sub + text[span.End:]

	// Later occurrences are matched positionally: the k-th replacement
	// marker after the placeholder takes the k-th later slot.
	later := s.renderer.Occurrences(in.ID)[1:]
	text, n := s.codec.ReplaceOccurrences(text, in.ID, span.Start+len(sub), func(k int) (string, bool) {
		if k >= len(later) {
			return "", false
		}
		return rendering.Slots[later[k]], true
	})
	if n < len(later) {
		s.logger.Warn("variable %d: found %d of %d repeated occurrences", in.ID, n, len(later))
	}

	if err := s.commit(lines, text); err != nil {
		s.abort(err)
		return false
	}
	s.logger.Debug("resolved variable %d (index %d)", in.ID, p)
	return true
}

// land refreshes the placeholder of variable p with its display text and
// puts the cursor after it.
func (s *Session) land(p int) bool {
	in := s.inputs[p-1]
	text, lines := s.snapshot()

	span, ok := s.codec.FindPlaceholder(text, in.ID, 0)
	if !ok {
		s.abort(&MarkerNotFoundError{Index: p, ID: in.ID})
		return false
	}

	display, ok := s.resolved[in.ID]
	if !ok {
		rendering, err := s.renderer.Render(s.resolved)
		if err != nil {
			s.abort(fmt.Errorf("rendering default of variable %d: %w", in.ID, err))
			return false
		}
		display = rendering.Defaults[p-1]
	}

	text = text[:span.InnerStart] + display + text[span.InnerEnd:]
	if err := s.commit(lines, text); err != nil {
		s.abort(err)
		return false
	}

	pos := marker.OffsetToPos(text, span.InnerStart+len(display))
	if err := s.doc.SetCursor(ToAbsoluteRow(s.baseRow, pos.Line), pos.Col); err != nil {
		s.abort(fmt.Errorf("placing cursor: %w", err))
		return false
	}
	return true
}

// snapshot returns the rows from the insertion row down, newline-joined and
// as read.
func (s *Session) snapshot() (string, []string) {
	lines := s.doc.Lines(s.baseRow, s.doc.LineCount())
	return strings.Join(lines, "\n"), lines
}

// commit writes text back over the rows snapshot returned, touching only
// the rows that changed.
func (s *Session) commit(old []string, text string) error {
	updated := splitText(text)
	start, oldEnd, newEnd := changedRange(old, updated)
	if start == oldEnd && start == newEnd {
		return nil
	}
	err := s.doc.SetLines(ToAbsoluteRow(s.baseRow, start), ToAbsoluteRow(s.baseRow, oldEnd), updated[start:newEnd])
	if err != nil {
		return fmt.Errorf("writing rows %d-%d: %w", start, oldEnd, err)
	}
	return nil
}

func (s *Session) abort(err error) {
	s.aborted = true
	s.err = err
	if err != nil {
		s.logger.Warn("snippet aborted at index %d: %v", s.index, err)
	}
}

// ID returns the session's unique id.
func (s *Session) ID() uuid.UUID { return s.id }

// Index returns the traversal position: 0 before the first variable,
// 1..Len() on a variable, Len()+1 once completed.
func (s *Session) Index() int { return s.index }

// Len returns the number of distinct variables.
func (s *Session) Len() int { return len(s.inputs) }

// BaseRow returns the row the snippet was inserted on.
func (s *Session) BaseRow() int { return s.baseRow }

// Aborted reports whether the session was abandoned. It is permanent.
func (s *Session) Aborted() bool { return s.aborted }

// Done reports whether the session completed and placed the cursor at its
// terminal position.
func (s *Session) Done() bool { return s.done }

// Err returns the reason the session aborted, if it failed.
// Backing out before the first variable aborts without an error.
func (s *Session) Err() error { return s.err }

// Checkpoints returns the undo checkpoints taken on entering each variable.
func (s *Session) Checkpoints() []history.CheckpointID {
	return slices.Clone(s.checkpoints)
}

// Resolved returns the text captured for each variable id so far.
func (s *Session) Resolved() structure.Values {
	return maps.Clone(s.resolved)
}

// Current returns the variable the session is on, if any.
func (s *Session) Current() (structure.Input, bool) {
	if s.Ended() || s.index < 1 || s.index > len(s.inputs) {
		return structure.Input{}, false
	}
	return s.inputs[s.index-1], true
}
