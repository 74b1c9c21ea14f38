package play

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/engine"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/session"
)

// Player is the key-binding layer for one snippet session:
//
//	Tab            next variable
//	Shift-Tab      previous variable
//	Esc, Ctrl-C    quit
//
// Other keys edit the document at the cursor. An interrupt event posted to
// the screen also quits.
type Player struct {
	screen  tcell.Screen
	doc     *engine.Document
	session *session.Session
	logger  *logging.Logger

	mu      sync.Mutex
	message string
}

// NewPlayer creates a player. The screen must not be initialised yet; Run
// owns its lifetime.
func NewPlayer(screen tcell.Screen, doc *engine.Document, s *session.Session, logger *logging.Logger) *Player {
	if logger == nil {
		logger = logging.Null()
	}
	return &Player{
		screen:  screen,
		doc:     doc,
		session: s,
		logger:  logger.WithComponent("player"),
	}
}

// Run initialises the screen and processes events until the user quits.
func (p *Player) Run() error {
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer p.screen.Fini()

	p.screen.EnablePaste()
	p.Draw()

	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if p.HandleEvent(ev) {
			return nil
		}
		p.Draw()
	}
}

// HandleEvent applies one event and reports whether the player should quit.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		p.screen.Sync()
		return false
	case *tcell.EventInterrupt:
		return true
	case *tcell.EventKey:
		return p.handleKey(e)
	}
	return false
}

func (p *Player) handleKey(e *tcell.EventKey) bool {
	var err error

	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		p.advance(1)
	case tcell.KeyBacktab:
		p.advance(-1)
	case tcell.KeyEnter:
		err = p.doc.InsertText("\n")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		err = p.doc.DeleteBackward()
	case tcell.KeyLeft:
		err = p.moveCursor(0, -1)
	case tcell.KeyRight:
		err = p.moveCursor(0, 1)
	case tcell.KeyUp:
		err = p.moveCursor(-1, 0)
	case tcell.KeyDown:
		err = p.moveCursor(1, 0)
	case tcell.KeyRune:
		err = p.doc.InsertText(string(e.Rune()))
	}

	if err != nil {
		p.logger.Debug("edit failed: %v", err)
		p.setMessage(err.Error())
	}
	return false
}

func (p *Player) advance(offset int) {
	if p.session.Advance(offset) {
		switch {
		case p.session.Done():
			p.setMessage("snippet complete")
		case p.session.Err() != nil:
			p.setMessage("snippet aborted: " + p.session.Err().Error())
		default:
			p.setMessage("snippet cancelled")
		}
	}
}

func (p *Player) moveCursor(dRow, dCol int) error {
	row, col := p.doc.Cursor()
	row = min(max(row+dRow, 0), p.doc.LineCount()-1)
	return p.doc.SetCursor(row, max(col+dCol, 0))
}

func (p *Player) setMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = msg
}

// Status returns the text of the status line.
func (p *Player) Status() string {
	p.mu.Lock()
	msg := p.message
	p.mu.Unlock()

	if in, ok := p.session.Current(); ok {
		return fmt.Sprintf("variable %d (%d/%d)  Tab next  Shift-Tab back  Esc quit", in.ID, p.session.Index(), p.session.Len())
	}
	if msg == "" {
		msg = "snippet ended"
	}
	return msg + "  Esc quit"
}

// Draw renders the document and status line.
func (p *Player) Draw() {
	p.screen.Clear()
	width, height := p.screen.Size()
	if height < 2 {
		p.screen.Show()
		return
	}

	text := tcell.StyleDefault
	status := tcell.StyleDefault.Reverse(true)

	rows := min(p.doc.LineCount(), height-1)
	for y, line := range p.doc.Lines(0, rows) {
		drawText(p.screen, 0, y, width, line, text)
	}
	drawText(p.screen, 0, height-1, width, p.Status(), status)

	row, col := p.doc.Cursor()
	if row < height-1 {
		p.screen.ShowCursor(displayColumn(p.doc.LineText(row), col), row)
	} else {
		p.screen.HideCursor()
	}
	p.screen.Show()
}

// drawText writes s at (x, y), clipped to width.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// displayColumn converts a byte column into a cell column.
func displayColumn(line string, col int) int {
	n := 0
	for i := range line {
		if i >= col {
			break
		}
		n++
	}
	return n
}
