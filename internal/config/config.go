package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/snipstorm/internal/config/loader"
	"github.com/dshills/snipstorm/internal/engine/history"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/marker"
)

// Config holds all snipstorm settings.
type Config struct {
	Snippet SnippetConfig
	History HistoryConfig
	Log     LogConfig
}

// SnippetConfig configures snippet markers.
type SnippetConfig struct {
	// Open is the opening marker delimiter.
	Open string
	// Close is the closing marker delimiter. Placeholder defaults must not
	// contain it.
	Close string
}

// HistoryConfig configures the undo journal.
type HistoryConfig struct {
	// MaxEntries is the number of undo groups kept per document.
	MaxEntries int
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level written: debug, info, warn or error.
	Level string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Snippet: SnippetConfig{
			Open:  marker.DefaultOpen,
			Close: marker.DefaultClose,
		},
		History: HistoryConfig{
			MaxEntries: history.DefaultMaxEntries,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	env       loader.Loader
}

// WithFileSystem reads config files from fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithEnvLoader replaces the environment layer.
func WithEnvLoader(l loader.Loader) Option {
	return func(o *loadOptions) {
		o.env = l
	}
}

// Load resolves configuration from defaults, the file at path (if path is
// non-empty) and the environment, then validates it.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.env == nil {
		o.env = loader.NewEnvLoader(o.envPrefix)
	}

	var merged map[string]any
	if path != "" {
		fl, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := fl.LoadFrom(path)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	env, err := o.env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, env)

	return FromMap(merged)
}

// FromMap applies a nested settings map over the defaults and validates
// the result.
func FromMap(m map[string]any) (*Config, error) {
	cfg := Default()
	if err := cfg.apply(m); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(m map[string]any) error {
	var errs []error
	if v, ok := loader.GetByPath(m, "snippet.open"); ok {
		errs = append(errs, setString("snippet.open", v, &c.Snippet.Open))
	}
	if v, ok := loader.GetByPath(m, "snippet.close"); ok {
		errs = append(errs, setString("snippet.close", v, &c.Snippet.Close))
	}
	if v, ok := loader.GetByPath(m, "history.max_entries"); ok {
		errs = append(errs, setInt("history.max_entries", v, &c.History.MaxEntries))
	}
	if v, ok := loader.GetByPath(m, "log.level"); ok {
		errs = append(errs, setString("log.level", v, &c.Log.Level))
	}
	return errors.Join(errs...)
}

func setString(path string, v any, dst *string) error {
	s, ok := v.(string)
	if !ok {
		return &TypeError{Path: path, Expected: "string", Value: v}
	}
	*dst = s
	return nil
}

func setInt(path string, v any, dst *int) error {
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case uint64:
		*dst = int(n)
	case float64:
		if n != float64(int(n)) {
			return &TypeError{Path: path, Expected: "integer", Value: v}
		}
		*dst = int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return &TypeError{Path: path, Expected: "integer", Value: v}
		}
		*dst = i
	default:
		return &TypeError{Path: path, Expected: "integer", Value: v}
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error
	if _, err := marker.New(c.Snippet.Open, c.Snippet.Close); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "snippet",
			Message: err.Error(),
			Value:   c.Snippet.Open + " " + c.Snippet.Close,
		})
	}
	if c.History.MaxEntries <= 0 {
		errs = append(errs, &ValidationError{
			Path:    "history.max_entries",
			Message: "must be positive",
			Value:   c.History.MaxEntries,
		})
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{
			Path:    "log.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Log.Level,
		})
	}
	return errors.Join(errs...)
}

// Codec returns the marker codec for the configured delimiters.
func (c *Config) Codec() (*marker.Codec, error) {
	return marker.New(c.Snippet.Open, c.Snippet.Close)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
