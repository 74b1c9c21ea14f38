package structure

import (
	"fmt"
	"strings"
)

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStructure, fmt.Sprintf(format, args...))
}

// Expr is an expression producing text from variable values.
type Expr interface {
	Eval(v Values) (string, error)
}

// Text is a constant expression.
type Text string

// Eval returns the text.
func (t Text) Eval(Values) (string, error) { return string(t), nil }

// Ref is the current value of a variable.
type Ref int

// Eval returns the variable's value, or empty text if it has none.
func (r Ref) Eval(v Values) (string, error) { return v[int(r)], nil }

// Concat joins the values of its expressions.
type Concat []Expr

// Eval evaluates every element in order and joins the results.
func (c Concat) Eval(v Values) (string, error) {
	var sb strings.Builder
	for _, e := range c {
		s, err := e.Eval(v)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Apply runs a transform over the value of Arg.
type Apply struct {
	Transform Transform
	Arg       Expr
}

// Eval evaluates Arg and applies the transform.
func (a Apply) Eval(v Values) (string, error) {
	in, err := evalExpr(a.Arg, v)
	if err != nil {
		return "", err
	}
	if a.Transform == nil {
		return in, nil
	}
	return a.Transform.Apply(in)
}

func evalExpr(e Expr, v Values) (string, error) {
	if e == nil {
		return "", nil
	}
	return e.Eval(v)
}

// Part is a template building block. Use the constructor functions.
type Part struct {
	kind      Kind
	text      string
	id        int
	def       Expr
	transform Transform
	arg       Expr
}

// Literal is fixed text.
func Literal(text string) Part {
	return Part{kind: KindLiteral, text: text}
}

// Variable is an occurrence of variable id carrying its default text.
func Variable(id int, def Expr) Part {
	return Part{kind: KindVariable, id: id, def: def}
}

// Mirror repeats variable id verbatim.
func Mirror(id int) Part {
	return Part{kind: KindVariable, id: id}
}

// Transformed repeats variable id through t.
func Transformed(id int, t Transform) Part {
	return Part{kind: KindVariable, id: id, transform: t}
}

// TransformOnly applies t to an expression that is not a single variable.
func TransformOnly(t Transform, arg Expr) Part {
	return Part{kind: KindTransform, transform: t, arg: arg}
}

// Terminal marks the final cursor position.
func Terminal() Part {
	return Part{kind: KindTerminal}
}

// Template is an Evaluator built from parts.
type Template struct {
	nodes    []Node
	inputs   []Input
	defaults map[int]Expr
	args     map[int]Expr
	zero     int
	hasZero  bool
}

// NewTemplate builds a template. The first part naming a variable id is its
// first occurrence; the default text is taken from the first Variable part
// for that id that carries one.
func NewTemplate(parts ...Part) (*Template, error) {
	t := &Template{
		nodes:    make([]Node, len(parts)),
		defaults: make(map[int]Expr),
		args:     make(map[int]Expr),
	}

	first := make(map[int]int)
	for i, p := range parts {
		n := Node{Kind: p.kind, Text: p.text, ID: p.id, Transform: p.transform}

		switch p.kind {
		case KindVariable:
			if p.id <= 0 {
				return nil, errorf("part %d: variable id must be positive, got %d", i, p.id)
			}
			fi, seen := first[p.id]
			if !seen {
				fi = i
				first[p.id] = i
				t.inputs = append(t.inputs, Input{ID: p.id, FirstIndex: i, Transform: p.transform})
			}
			n.FirstIndex = fi
			if _, ok := t.defaults[p.id]; !ok && p.def != nil {
				t.defaults[p.id] = p.def
			}
		case KindTransform:
			if p.transform == nil {
				return nil, errorf("part %d: transform-only part needs a transform", i)
			}
			t.args[i] = p.arg
		case KindTerminal:
			if t.hasZero {
				return nil, errorf("part %d: more than one terminal", i)
			}
			t.zero, t.hasZero = i, true
		}
		t.nodes[i] = n
	}

	if err := Check(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Inputs returns one entry per distinct variable in declaration order.
func (t *Template) Inputs() []Input {
	out := make([]Input, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// Nodes returns the node sequence.
func (t *Template) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// ZeroIndex returns the slot of the terminal part, if any.
func (t *Template) ZeroIndex() (int, bool) {
	return t.zero, t.hasZero
}

// EvaluateStructure renders every slot with the given variable values.
func (t *Template) EvaluateStructure(v Values) ([]string, error) {
	out := make([]string, len(t.nodes))
	for i, n := range t.nodes {
		var err error
		switch n.Kind {
		case KindLiteral:
			out[i] = n.Text
		case KindVariable:
			out[i] = v[n.ID]
			if n.Transform != nil {
				out[i], err = n.Transform.Apply(out[i])
			}
		case KindTransform:
			out[i], err = Apply{Transform: n.Transform, Arg: t.args[i]}.Eval(v)
		case KindTerminal:
			out[i] = ""
		}
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return out, nil
}

// EvaluateInputs returns the default text of every input.
func (t *Template) EvaluateInputs(v Values) ([]string, error) {
	out := make([]string, len(t.inputs))
	for i, in := range t.inputs {
		s, err := evalExpr(t.defaults[in.ID], v)
		if err != nil {
			return nil, fmt.Errorf("default of variable %d: %w", in.ID, err)
		}
		out[i] = s
	}
	return out, nil
}
