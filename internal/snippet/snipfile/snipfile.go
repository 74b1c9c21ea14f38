// Package snipfile decodes snippet definitions from TOML or YAML files.
//
// A file lists the parts of one snippet, and optionally the document it is
// expanded into and a script of user actions to replay:
//
//	document = "x := ;"
//	row = 0
//	col = 5
//
//	[[parts]]
//	text = "foo("
//
//	[[parts]]
//	var = 1
//	default = [{ text = "bar" }]
//
//	[[parts]]
//	var = 1
//	lua = "s:upper()"
//
//	[[parts]]
//	terminal = true
//
//	[[steps]]
//	backspace = 3
//	type = "x"
//	advance = 1
//
// Expressions are structured values rather than a parsed syntax: text,
// a variable reference, a Lua transform over a concatenation of arguments,
// or a concatenation.
package snipfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Errors returned when decoding snippet files.
var (
	// ErrUnsupportedFormat indicates a file extension that is neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported snippet file format")

	// ErrInvalidPart indicates a part that is not exactly one kind of node.
	ErrInvalidPart = errors.New("invalid snippet part")

	// ErrNoParts indicates a file without parts.
	ErrNoParts = errors.New("snippet file has no parts")
)

// Format is a snippet file encoding.
type Format int

const (
	// FormatTOML is TOML.
	FormatTOML Format = iota
	// FormatYAML is YAML.
	FormatYAML
)

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// File is a decoded snippet file.
type File struct {
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`

	// Document is the initial text the snippet is expanded into.
	Document string `toml:"document" yaml:"document"`
	// Row and Col are the insertion position in Document.
	Row int `toml:"row" yaml:"row"`
	Col int `toml:"col" yaml:"col"`

	Parts []Part `toml:"parts" yaml:"parts"`
	Steps []Step `toml:"steps" yaml:"steps"`
}

// Part is one node of the snippet. Exactly one of Text, Var, Lua (without
// Var) or Terminal selects its kind.
type Part struct {
	// Text is literal text.
	Text *string `toml:"text" yaml:"text"`

	// Var is a variable id. The first part naming an id is its first
	// occurrence.
	Var int `toml:"var" yaml:"var"`
	// Default is the variable's default text, concatenated.
	Default []Expr `toml:"default" yaml:"default"`

	// Lua is a transform source. With Var it transforms the variable;
	// without it applies to the concatenation of Args.
	Lua  string `toml:"lua" yaml:"lua"`
	Args []Expr `toml:"args" yaml:"args"`

	// Terminal marks the final cursor position.
	Terminal bool `toml:"terminal" yaml:"terminal"`
}

// Expr is one element of an expression. Exactly one field is set.
type Expr struct {
	Text *string `toml:"text" yaml:"text"`
	Ref  int     `toml:"ref" yaml:"ref"`
	Lua  string  `toml:"lua" yaml:"lua"`
	Args []Expr  `toml:"args" yaml:"args"`
}

// Step is one replayed user action: delete Backspace characters before
// the cursor, type Type, then advance the session by Advance.
type Step struct {
	Backspace int    `toml:"backspace" yaml:"backspace"`
	Type      string `toml:"type" yaml:"type"`
	Advance   int    `toml:"advance" yaml:"advance"`
}

// Load reads and decodes a snippet file.
func Load(path string) (*File, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snippet file: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a snippet file.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if len(f.Parts) == 0 {
		return nil, ErrNoParts
	}
	return &f, nil
}
