// Package play connects a snippet session to user input.
//
// Replay feeds a recorded script of edits and advances to a session;
// Player drives one interactively on a terminal screen.
package play

import (
	"fmt"

	"github.com/dshills/snipstorm/internal/engine"
	"github.com/dshills/snipstorm/internal/snippet/session"
	"github.com/dshills/snipstorm/internal/snippet/snipfile"
)

// Replay applies steps to doc, advancing s as each step says. Steps after
// the session has ended still edit the document.
func Replay(doc *engine.Document, s *session.Session, steps []snipfile.Step) error {
	for i, step := range steps {
		for range step.Backspace {
			if err := doc.DeleteBackward(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		if step.Type != "" {
			if err := doc.InsertText(step.Type); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		if step.Advance != 0 {
			s.Advance(step.Advance)
		}
	}
	return nil
}
