// Package structure defines the parsed form of a snippet and the evaluator
// contract the expansion engine consumes.
//
// A snippet is an ordered sequence of nodes. Literal nodes render verbatim.
// Variable nodes are fill-in points identified by a numeric id; the first
// node carrying an id is that variable's first occurrence and every other
// node with the same id mirrors it, optionally through a Transform.
// Transform-only nodes apply a transform to an expression that is not a
// single variable. At most one terminal node marks where the cursor ends up.
package structure

import (
	"errors"
	"strconv"
)

// ErrInvalidStructure indicates a node sequence violates the structure invariants.
var ErrInvalidStructure = errors.New("invalid snippet structure")

// Kind distinguishes node types.
type Kind int

const (
	// KindLiteral is fixed text.
	KindLiteral Kind = iota
	// KindVariable is an occurrence of a user variable.
	KindVariable
	// KindTransform is a transform applied to a non-variable expression.
	KindTransform
	// KindTerminal marks the final cursor position.
	KindTerminal
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindVariable:
		return "variable"
	case KindTransform:
		return "transform"
	case KindTerminal:
		return "terminal"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Transform rewrites the text of a variable or expression.
type Transform interface {
	Apply(in string) (string, error)
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc func(in string) (string, error)

// Apply calls f(in).
func (f TransformFunc) Apply(in string) (string, error) {
	return f(in)
}

// Node is one slot of a snippet structure.
type Node struct {
	Kind Kind

	// Text is the literal text of a KindLiteral node.
	Text string

	// ID is the variable id of a KindVariable node; zero otherwise.
	ID int

	// FirstIndex is the slot index of the variable's first occurrence.
	FirstIndex int

	// Transform is applied to the variable (or expression) value, if set.
	Transform Transform
}

// IsFirst reports whether the node at index i is its variable's first occurrence.
func (n Node) IsFirst(i int) bool {
	return n.Kind == KindVariable && n.FirstIndex == i
}

// Input describes one distinct variable, in declaration order.
type Input struct {
	ID         int
	FirstIndex int
	Transform  Transform
}

// Values maps a variable id to its text.
type Values map[int]string

// Evaluator is the parsed snippet as seen by the expansion engine.
type Evaluator interface {
	// Inputs returns one entry per distinct variable in declaration order.
	Inputs() []Input

	// Nodes returns the node sequence.
	Nodes() []Node

	// EvaluateStructure renders one string per node slot. Variables missing
	// from v evaluate as empty text.
	EvaluateStructure(v Values) ([]string, error)

	// EvaluateInputs returns the default display text of every input,
	// in Inputs order.
	EvaluateInputs(v Values) ([]string, error)

	// ZeroIndex returns the slot of the terminal node, if one is declared.
	ZeroIndex() (int, bool)
}

// Check verifies the structure invariants of an evaluator's nodes and inputs:
// every variable id has exactly one first occurrence whose slot matches its
// input and precedes every other occurrence, ids are positive, and at most
// one terminal node exists, at the slot ZeroIndex reports.
func Check(e Evaluator) error {
	nodes := e.Nodes()
	first := make(map[int]int)
	terminals := 0
	zi, hasZero := e.ZeroIndex()

	for i, n := range nodes {
		switch n.Kind {
		case KindVariable:
			if n.ID <= 0 {
				return errorf("node %d: variable id must be positive, got %d", i, n.ID)
			}
			if n.FirstIndex < 0 || n.FirstIndex >= len(nodes) || nodes[n.FirstIndex].ID != n.ID {
				return errorf("node %d: first index %d does not hold variable %d", i, n.FirstIndex, n.ID)
			}
			if n.FirstIndex > i {
				return errorf("node %d: first occurrence of variable %d comes later, at %d", i, n.ID, n.FirstIndex)
			}
			if n.IsFirst(i) {
				if _, dup := first[n.ID]; dup {
					return errorf("variable %d has more than one first occurrence", n.ID)
				}
				first[n.ID] = i
			}
		case KindTerminal:
			if !hasZero || zi != i {
				return errorf("node %d: terminal node not reported by zero index", i)
			}
			terminals++
		}
	}
	if terminals > 1 {
		return errorf("%d terminal nodes, at most one allowed", terminals)
	}

	inputs := e.Inputs()
	if len(inputs) != len(first) {
		return errorf("%d inputs for %d distinct variables", len(inputs), len(first))
	}
	for _, in := range inputs {
		idx, ok := first[in.ID]
		if !ok || idx != in.FirstIndex {
			return errorf("input %d: first index %d does not match structure", in.ID, in.FirstIndex)
		}
	}

	if hasZero {
		if zi < 0 || zi >= len(nodes) || nodes[zi].Kind != KindTerminal {
			return errorf("zero index %d is not a terminal node", zi)
		}
	}
	return nil
}
