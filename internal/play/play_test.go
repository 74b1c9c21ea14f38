package play

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/engine"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/session"
	"github.com/dshills/snipstorm/internal/snippet/snipfile"
	"github.com/dshills/snipstorm/internal/snippet/structure"
)

func fooSession(t *testing.T, doc *engine.Document) *session.Session {
	t.Helper()
	tmpl, err := structure.NewTemplate(
		structure.Literal("foo("),
		structure.Variable(1, structure.Text("bar")),
		structure.Literal(", "),
		structure.Mirror(1),
		structure.Literal(")"),
		structure.Terminal(),
	)
	if err != nil {
		t.Fatal(err)
	}
	s, err := session.Begin(doc, tmpl, session.WithLogger(logging.Null()))
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	return s
}

func newTestPlayer(t *testing.T) (*Player, tcell.SimulationScreen, *engine.Document, *session.Session) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(60, 5)

	doc := engine.New()
	s := fooSession(t, doc)
	return NewPlayer(screen, doc, s, nil), screen, doc, s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestReplay(t *testing.T) {
	doc := engine.New(engine.WithContent("x := ;"))
	if err := doc.SetCursor(0, 5); err != nil {
		t.Fatal(err)
	}
	s := fooSession(t, doc)

	steps := []snipfile.Step{
		{Backspace: 3, Type: "a"},
		{Type: "b", Advance: 1},
	}
	if err := Replay(doc, s, steps); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if got := doc.Text(); got != "x := foo(ab, ab);" {
		t.Errorf("got %q", got)
	}
	if !s.Done() {
		t.Error("expected session to complete")
	}
}

func TestHandleEventTraversal(t *testing.T) {
	p, _, doc, s := newTestPlayer(t)

	for _, ev := range []tcell.Event{key(tcell.KeyBackspace2), key(tcell.KeyBackspace2), key(tcell.KeyBackspace2), runeKey('z')} {
		if p.HandleEvent(ev) {
			t.Fatal("editing keys must not quit")
		}
	}
	if got := doc.Text(); got != "foo(<{1:z}>, <{1}>)<{0}>" {
		t.Fatalf("unexpected text while editing %q", got)
	}
	if !strings.HasPrefix(p.Status(), "variable 1 (1/1)") {
		t.Errorf("unexpected status %q", p.Status())
	}

	p.HandleEvent(key(tcell.KeyTab))
	if got := doc.Text(); got != "foo(z, z)" {
		t.Errorf("got %q", got)
	}
	if !s.Done() || !strings.HasPrefix(p.Status(), "snippet complete") {
		t.Errorf("expected completion, status %q", p.Status())
	}
}

func TestHandleEventBacktabCancels(t *testing.T) {
	p, _, _, s := newTestPlayer(t)

	p.HandleEvent(key(tcell.KeyBacktab))
	if !s.Aborted() {
		t.Error("backtab on the first variable should cancel the snippet")
	}
	if !strings.HasPrefix(p.Status(), "snippet cancelled") {
		t.Errorf("unexpected status %q", p.Status())
	}
}

func TestHandleEventQuit(t *testing.T) {
	for _, k := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		p, _, _, _ := newTestPlayer(t)
		if !p.HandleEvent(key(k)) {
			t.Errorf("key %v should quit", k)
		}
	}
}

func TestHandleEventCursorAndEnter(t *testing.T) {
	p, _, doc, _ := newTestPlayer(t)

	p.HandleEvent(key(tcell.KeyLeft))
	if _, col := doc.Cursor(); col != 10 {
		t.Errorf("expected column 10, got %d", col)
	}
	p.HandleEvent(key(tcell.KeyEnter))
	if doc.LineCount() != 2 {
		t.Errorf("expected enter to split the line, got %d lines", doc.LineCount())
	}
	p.HandleEvent(key(tcell.KeyUp))
	if row, _ := doc.Cursor(); row != 0 {
		t.Errorf("expected row 0, got %d", row)
	}
}

func TestDraw(t *testing.T) {
	p, screen, _, _ := newTestPlayer(t)
	p.Draw()

	var sb strings.Builder
	for x := range 9 {
		r, _, _, _ := screen.GetContent(x, 0) //nolint:staticcheck // GetContent is the correct API
		sb.WriteRune(r)
	}
	if sb.String() != "foo(<{1:b" {
		t.Errorf("unexpected first row %q", sb.String())
	}

	_, height := screen.Size()
	r, _, style, _ := screen.GetContent(0, height-1) //nolint:staticcheck // GetContent is the correct API
	if r != 'v' {
		t.Errorf("expected status line, got %q", r)
	}
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Error("status line should be reversed")
	}
}
