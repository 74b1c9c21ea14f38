package session

import (
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/marker"
)

// Option configures a Session.
type Option func(*Session)

// WithCodec sets the marker delimiters used in the document.
func WithCodec(c *marker.Codec) Option {
	return func(s *Session) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
