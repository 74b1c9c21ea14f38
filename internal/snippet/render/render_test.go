package render

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/snipstorm/internal/snippet/marker"
	"github.com/dshills/snipstorm/internal/snippet/structure"
)

var upper = structure.TransformFunc(func(s string) (string, error) { return strings.ToUpper(s), nil })

func mustTemplate(t *testing.T, parts ...structure.Part) *structure.Template {
	t.Helper()
	tmpl, err := structure.NewTemplate(parts...)
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	return tmpl
}

func mustRenderer(t *testing.T, eval structure.Evaluator) *Renderer {
	t.Helper()
	r, err := New(eval, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestRenderInitialBody(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Literal("foo("),
		structure.Variable(1, structure.Text("bar")),
		structure.Literal(", "),
		structure.Mirror(1),
		structure.Literal(")"),
		structure.Terminal(),
	)
	r := mustRenderer(t, tmpl)

	got, err := r.Render(structure.Values{})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := "foo(<{1:bar}>, <{1}>)<{0}>"
	if got.Body() != want {
		t.Errorf("got %q, want %q", got.Body(), want)
	}
	if got.Terminal != 5 {
		t.Errorf("expected terminal slot 5, got %d", got.Terminal)
	}
}

func TestRenderAppendsTerminal(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Variable(1, structure.Text("a")),
		structure.Literal("-"),
		structure.Variable(2, nil),
	)
	r := mustRenderer(t, tmpl)

	got, err := r.Render(nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"<{1:a}>", "-", "<{2:}>", "<{0}>"}
	if !slices.Equal(got.Slots, want) {
		t.Errorf("got %q, want %q", got.Slots, want)
	}
	if got.Terminal != 3 {
		t.Errorf("expected appended terminal at 3, got %d", got.Terminal)
	}
}

func TestRenderTransformedRepeatIsReplacement(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Variable(1, structure.Text("name")),
		structure.Literal(" "),
		structure.Transformed(1, upper),
	)
	r := mustRenderer(t, tmpl)

	got, err := r.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slots[2] != "<{1}>" {
		t.Errorf("unresolved transformed repeat should be a replacement marker, got %q", got.Slots[2])
	}

	got, err = r.Render(structure.Values{1: "go"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Slots[0] != "go" || got.Slots[2] != "GO" {
		t.Errorf("resolved slots not evaluated: %q", got.Slots)
	}
}

func TestRenderTransformOnlySlot(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Variable(1, nil),
		structure.Literal(":"),
		structure.TransformOnly(upper, structure.Concat{structure.Ref(1), structure.Text("!")}),
	)
	r := mustRenderer(t, tmpl)

	// Transform-only slots stay markers even after every variable is resolved.
	got, err := r.Render(structure.Values{1: "hey"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Slots[2] != "<{~2}>" {
		t.Errorf("expected post-transform marker, got %q", got.Slots[2])
	}

	posts, err := r.PostTransforms(structure.Values{1: "hey"})
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slot != 2 || posts[0].Text != "HEY!" {
		t.Errorf("unexpected post transforms %+v", posts)
	}
}

func TestRenderDependentDefaults(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Variable(1, structure.Text("parse")),
		structure.Literal(" "),
		structure.Variable(2, structure.Concat{structure.Ref(1), structure.Text("_test")}),
	)
	r := mustRenderer(t, tmpl)

	got, err := r.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slots[2] != "<{2:_test}>" {
		t.Errorf("unexpected initial placeholder %q", got.Slots[2])
	}

	got, err = r.Render(structure.Values{1: "lex"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Slots[2] != "<{2:lex_test}>" {
		t.Errorf("dependent default not re-derived: %q", got.Slots[2])
	}
	if got.Defaults[1] != "lex_test" {
		t.Errorf("unexpected defaults %q", got.Defaults)
	}
}

func TestOccurrences(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Literal("x"),
		structure.Variable(1, nil),
		structure.Variable(2, nil),
		structure.Mirror(1),
		structure.Mirror(2),
		structure.Mirror(1),
	)
	r := mustRenderer(t, tmpl)

	if got := r.Occurrences(1); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("occurrences of 1 = %v", got)
	}
	if got := r.Occurrences(2); !slices.Equal(got, []int{2, 4}) {
		t.Errorf("occurrences of 2 = %v", got)
	}
	if got := r.Occurrences(9); len(got) != 0 {
		t.Errorf("unknown id should have no occurrences, got %v", got)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 inputs, got %d", r.Len())
	}
}

func TestNewRejectsReservedDelimiter(t *testing.T) {
	tmpl := mustTemplate(t, structure.Variable(1, structure.Text("a}>b")))

	if _, err := New(tmpl, nil); !errors.Is(err, marker.ErrReservedDelimiter) {
		t.Errorf("expected ErrReservedDelimiter, got %v", err)
	}

	// A different delimiter pair makes the same default legal.
	codec, err := marker.New("[[", "]]")
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(tmpl, codec)
	if err != nil {
		t.Fatalf("New with custom codec failed: %v", err)
	}
	got, err := r.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Body() != "[[1:a}>b]][[0]]" {
		t.Errorf("unexpected body %q", got.Body())
	}
}

func TestRenderRejectsDerivedDelimiter(t *testing.T) {
	tmpl := mustTemplate(t,
		structure.Variable(1, nil),
		structure.Variable(2, structure.Ref(1)),
	)
	r := mustRenderer(t, tmpl)

	if _, err := r.Render(structure.Values{1: "}>"}); !errors.Is(err, marker.ErrReservedDelimiter) {
		t.Errorf("expected ErrReservedDelimiter, got %v", err)
	}
}

func TestRenderEvaluationError(t *testing.T) {
	boom := errors.New("boom")
	failing := structure.TransformFunc(func(string) (string, error) { return "", boom })
	tmpl := mustTemplate(t,
		structure.Variable(1, nil),
		structure.TransformOnly(failing, structure.Ref(1)),
	)
	r := mustRenderer(t, tmpl)

	if _, err := r.Render(nil); !errors.Is(err, ErrEvaluation) {
		t.Errorf("expected ErrEvaluation, got %v", err)
	}
	if _, err := r.PostTransforms(nil); !errors.Is(err, ErrEvaluation) {
		t.Errorf("expected ErrEvaluation, got %v", err)
	}
}
