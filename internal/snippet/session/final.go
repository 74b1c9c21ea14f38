package session

import (
	"fmt"

	"github.com/dshills/snipstorm/internal/snippet/marker"
)

// finish fills in post-transform markers, strips the terminal marker and
// moves the cursor to it. Substitutions stay committed when the terminal
// marker cannot be found.
func (s *Session) finish() {
	posts, err := s.renderer.PostTransforms(s.resolved)
	if err != nil {
		s.abort(fmt.Errorf("evaluating transforms: %w", err))
		return
	}

	text, lines := s.snapshot()
	from := 0
	for _, pt := range posts {
		var ok bool
		text, from, ok = marker.ReplaceMarker(text, s.codec.PostTransform(pt.Slot), pt.Text, from)
		if !ok {
			s.logger.Warn("transform marker for slot %d not found", pt.Slot)
			break
		}
	}

	text, off, found := s.codec.StripTerminal(text)
	if err := s.commit(lines, text); err != nil {
		s.abort(err)
		return
	}
	if !found {
		s.abort(ErrTerminalMarkerNotFound)
		return
	}

	pos := marker.OffsetToPos(text, off)
	if err := s.doc.SetCursor(ToAbsoluteRow(s.baseRow, pos.Line), pos.Col); err != nil {
		s.abort(fmt.Errorf("placing cursor: %w", err))
		return
	}
	s.done = true
	s.logger.Debug("snippet completed at %d:%d", ToAbsoluteRow(s.baseRow, pos.Line), pos.Col)
}
