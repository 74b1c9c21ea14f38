package snipfile

import (
	"errors"
	"fmt"

	"github.com/dshills/snipstorm/internal/snippet/luaxform"
	"github.com/dshills/snipstorm/internal/snippet/structure"
)

// Snippet is a built snippet. Close releases its Lua transforms.
type Snippet struct {
	Name     string
	Template *structure.Template

	transforms []*luaxform.Transform
}

// Close releases the Lua states held by the snippet's transforms.
func (s *Snippet) Close() error {
	var errs []error
	for _, t := range s.transforms {
		errs = append(errs, t.Close())
	}
	s.transforms = nil
	return errors.Join(errs...)
}

// Build compiles the file's parts into a template.
func (f *File) Build() (*Snippet, error) {
	s := &Snippet{Name: f.Name}
	parts := make([]structure.Part, 0, len(f.Parts))

	for i, p := range f.Parts {
		part, err := s.buildPart(p)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		parts = append(parts, part)
	}

	tmpl, err := structure.NewTemplate(parts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Template = tmpl
	return s, nil
}

func (s *Snippet) buildPart(p Part) (structure.Part, error) {
	kinds := 0
	if p.Text != nil {
		kinds++
	}
	if p.Var != 0 {
		kinds++
	}
	if p.Var == 0 && p.Lua != "" {
		kinds++
	}
	if p.Terminal {
		kinds++
	}
	if kinds != 1 {
		return structure.Part{}, fmt.Errorf("%w: want exactly one of text, var, lua or terminal", ErrInvalidPart)
	}

	switch {
	case p.Text != nil:
		return structure.Literal(*p.Text), nil
	case p.Terminal:
		return structure.Terminal(), nil
	case p.Var != 0 && p.Lua != "":
		if len(p.Default) > 0 {
			return structure.Part{}, fmt.Errorf("%w: a transformed variable has no default", ErrInvalidPart)
		}
		t, err := s.compile(p.Lua)
		if err != nil {
			return structure.Part{}, err
		}
		return structure.Transformed(p.Var, t), nil
	case p.Var != 0:
		if len(p.Default) == 0 {
			return structure.Variable(p.Var, nil), nil
		}
		def, err := s.buildConcat(p.Default)
		if err != nil {
			return structure.Part{}, err
		}
		return structure.Variable(p.Var, def), nil
	default:
		t, err := s.compile(p.Lua)
		if err != nil {
			return structure.Part{}, err
		}
		arg, err := s.buildConcat(p.Args)
		if err != nil {
			return structure.Part{}, err
		}
		return structure.TransformOnly(t, arg), nil
	}
}

func (s *Snippet) buildConcat(exprs []Expr) (structure.Expr, error) {
	if len(exprs) == 1 {
		return s.buildExpr(exprs[0])
	}
	out := make(structure.Concat, 0, len(exprs))
	for _, e := range exprs {
		x, err := s.buildExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (s *Snippet) buildExpr(e Expr) (structure.Expr, error) {
	switch {
	case e.Text != nil && e.Ref == 0 && e.Lua == "":
		return structure.Text(*e.Text), nil
	case e.Ref != 0 && e.Text == nil && e.Lua == "":
		return structure.Ref(e.Ref), nil
	case e.Lua != "" && e.Text == nil && e.Ref == 0:
		t, err := s.compile(e.Lua)
		if err != nil {
			return nil, err
		}
		arg, err := s.buildConcat(e.Args)
		if err != nil {
			return nil, err
		}
		return structure.Apply{Transform: t, Arg: arg}, nil
	case len(e.Args) > 0 && e.Text == nil && e.Ref == 0:
		return s.buildConcat(e.Args)
	}
	return nil, fmt.Errorf("%w: expression must set exactly one of text, ref or lua", ErrInvalidPart)
}

func (s *Snippet) compile(src string) (*luaxform.Transform, error) {
	t, err := luaxform.New(src)
	if err != nil {
		return nil, err
	}
	s.transforms = append(s.transforms, t)
	return t, nil
}
