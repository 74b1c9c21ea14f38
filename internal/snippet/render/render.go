// Package render turns a snippet structure into insertable text carrying
// marker sentinels.
//
// Each slot of the structure renders to one string. Slots belonging to
// variables the user has not resolved yet become markers: the first
// occurrence a placeholder holding the default text, every other occurrence
// a bare replacement marker. Transform-only slots always become
// post-transform markers; their text is produced once all variables are
// known. The terminal marker sits at the declared terminal slot or is
// appended after the last slot.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/snipstorm/internal/snippet/marker"
	"github.com/dshills/snipstorm/internal/snippet/structure"
)

// ErrEvaluation wraps failures reported by the structure evaluator.
var ErrEvaluation = errors.New("snippet evaluation failed")

// Renderer renders one snippet structure.
type Renderer struct {
	eval   structure.Evaluator
	codec  *marker.Codec
	nodes  []structure.Node
	inputs []structure.Input

	// position maps a variable id to its index in inputs.
	position map[int]int

	// occurrences maps a variable id to its slots in ascending order.
	occurrences map[int][]int

	zero    int
	hasZero bool
}

// New creates a renderer. A nil codec uses the default delimiters.
// Default texts are checked against the codec's closing delimiter so a
// placeholder can never be terminated early.
func New(eval structure.Evaluator, codec *marker.Codec) (*Renderer, error) {
	if codec == nil {
		codec = marker.Default()
	}
	if err := structure.Check(eval); err != nil {
		return nil, err
	}

	r := &Renderer{
		eval:        eval,
		codec:       codec,
		nodes:       eval.Nodes(),
		inputs:      eval.Inputs(),
		position:    make(map[int]int),
		occurrences: make(map[int][]int),
	}
	r.zero, r.hasZero = eval.ZeroIndex()

	for i, in := range r.inputs {
		r.position[in.ID] = i
	}
	for i, n := range r.nodes {
		if n.Kind == structure.KindVariable {
			r.occurrences[n.ID] = append(r.occurrences[n.ID], i)
		}
	}

	defaults, err := r.defaults(structure.Values{})
	if err != nil {
		return nil, err
	}
	for i, d := range defaults {
		if err := codec.Validate(d); err != nil {
			return nil, fmt.Errorf("default of variable %d: %w", r.inputs[i].ID, err)
		}
	}
	return r, nil
}

// Codec returns the marker codec.
func (r *Renderer) Codec() *marker.Codec { return r.codec }

// Inputs returns the distinct variables in traversal order.
func (r *Renderer) Inputs() []structure.Input {
	out := make([]structure.Input, len(r.inputs))
	copy(out, r.inputs)
	return out
}

// Len returns the number of distinct variables.
func (r *Renderer) Len() int { return len(r.inputs) }

// Occurrences returns the slots holding variable id, first occurrence first.
func (r *Renderer) Occurrences(id int) []int {
	occ := r.occurrences[id]
	out := make([]int, len(occ))
	copy(out, occ)
	return out
}

// Rendering is the result of one render pass.
type Rendering struct {
	// Slots holds the text of every structure slot, plus the appended
	// terminal marker when the structure declares none.
	Slots []string

	// Defaults holds the display text of every input, in Inputs order.
	Defaults []string

	// Terminal is the slot holding the terminal marker.
	Terminal int
}

// Body returns the concatenated slots.
func (r *Rendering) Body() string {
	return strings.Join(r.Slots, "")
}

// Render renders the structure with the given resolved values. Variables
// absent from resolved render as markers.
func (r *Renderer) Render(resolved structure.Values) (*Rendering, error) {
	slots, err := r.eval.EvaluateStructure(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	if len(slots) != len(r.nodes) {
		return nil, fmt.Errorf("%w: %d slots for %d nodes", ErrEvaluation, len(slots), len(r.nodes))
	}
	defaults, err := r.defaults(resolved)
	if err != nil {
		return nil, err
	}

	for i, n := range r.nodes {
		switch n.Kind {
		case structure.KindVariable:
			if _, ok := resolved[n.ID]; ok {
				continue
			}
			if !n.IsFirst(i) {
				slots[i] = r.codec.Replacement(n.ID)
				continue
			}
			d := defaults[r.position[n.ID]]
			if err := r.codec.Validate(d); err != nil {
				return nil, fmt.Errorf("default of variable %d: %w", n.ID, err)
			}
			slots[i] = r.codec.Placeholder(n.ID, d)
		case structure.KindTransform:
			slots[i] = r.codec.PostTransform(i)
		case structure.KindTerminal:
			slots[i] = r.codec.Terminal()
		}
	}

	terminal := r.zero
	if !r.hasZero {
		slots = append(slots, r.codec.Terminal())
		terminal = len(slots) - 1
	}

	return &Rendering{Slots: slots, Defaults: defaults, Terminal: terminal}, nil
}

func (r *Renderer) defaults(resolved structure.Values) ([]string, error) {
	defaults, err := r.eval.EvaluateInputs(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	if len(defaults) != len(r.inputs) {
		return nil, fmt.Errorf("%w: %d defaults for %d inputs", ErrEvaluation, len(defaults), len(r.inputs))
	}
	return defaults, nil
}

// PostTransform is the evaluated output of a transform-only slot.
type PostTransform struct {
	Slot int
	Text string
}

// PostTransforms evaluates every transform-only slot, in ascending slot order.
func (r *Renderer) PostTransforms(resolved structure.Values) ([]PostTransform, error) {
	slots, err := r.eval.EvaluateStructure(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}

	var out []PostTransform
	for i, n := range r.nodes {
		if n.Kind == structure.KindTransform && i < len(slots) {
			out = append(out, PostTransform{Slot: i, Text: slots[i]})
		}
	}
	return out, nil
}
