// Package marker encodes and decodes the sentinel text a snippet session
// embeds in a document.
//
// Four sentinel kinds exist. With the default delimiters they look like:
//
//	<{3:default}>   placeholder: first occurrence of variable 3, with its default text
//	<{3}>           replacement: any later occurrence of variable 3
//	<{~7}>          post-transform: output of the transform at structure slot 7
//	<{0}>           terminal: final cursor position
//
// Variable ids start at 1, so the terminal sentinel never collides with a
// replacement. The inner text of a placeholder is free-form and may span
// lines but must not contain the closing delimiter.
package marker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default delimiters.
const (
	DefaultOpen  = "<{"
	DefaultClose = "}>"
)

// Errors returned by the codec.
var (
	// ErrReservedDelimiter indicates text contains the closing delimiter.
	ErrReservedDelimiter = errors.New("text contains the marker closing delimiter")

	// ErrInvalidDelimiters indicates an unusable delimiter pair.
	ErrInvalidDelimiters = errors.New("invalid marker delimiters")
)

// Codec builds and locates markers for one delimiter pair.
type Codec struct {
	open  string
	close string
}

// New creates a codec. Both delimiters must be non-empty and distinct.
func New(open, close string) (*Codec, error) {
	if open == "" || close == "" || open == close {
		return nil, fmt.Errorf("%w: open=%q close=%q", ErrInvalidDelimiters, open, close)
	}
	return &Codec{open: open, close: close}, nil
}

// Default returns a codec using DefaultOpen and DefaultClose.
func Default() *Codec {
	return &Codec{open: DefaultOpen, close: DefaultClose}
}

// Open returns the opening delimiter.
func (c *Codec) Open() string { return c.open }

// Close returns the closing delimiter.
func (c *Codec) Close() string { return c.close }

// Placeholder encodes the first occurrence of variable id with default text.
func (c *Codec) Placeholder(id int, text string) string {
	return c.placeholderHead(id) + text + c.close
}

// Replacement encodes a later occurrence of variable id.
func (c *Codec) Replacement(id int) string {
	return c.open + strconv.Itoa(id) + c.close
}

// PostTransform encodes the output slot of a transform at structure position pos.
func (c *Codec) PostTransform(pos int) string {
	return c.open + "~" + strconv.Itoa(pos) + c.close
}

// Terminal encodes the final cursor position.
func (c *Codec) Terminal() string {
	return c.open + "0" + c.close
}

func (c *Codec) placeholderHead(id int) string {
	return c.open + strconv.Itoa(id) + ":"
}

// Validate rejects text that would terminate a placeholder early.
func (c *Codec) Validate(text string) error {
	if strings.Contains(text, c.close) {
		return fmt.Errorf("%w %q: %q", ErrReservedDelimiter, c.close, text)
	}
	return nil
}
