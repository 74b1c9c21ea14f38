package config

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/dshills/snipstorm/internal/config/loader"
	"github.com/dshills/snipstorm/internal/logging"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

// staticEnv is an environment layer with fixed values.
type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) {
	return map[string]any(e), nil
}

func noEnv() Option {
	return WithEnvLoader(staticEnv{})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Snippet.Open != "<{" || cfg.Snippet.Close != "}>" {
		t.Errorf("unexpected delimiters %q %q", cfg.Snippet.Open, cfg.Snippet.Close)
	}
	if cfg.History.MaxEntries != 1000 {
		t.Errorf("unexpected max entries %d", cfg.History.MaxEntries)
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("unexpected log level %v", cfg.LogLevel())
	}
}

func TestLoadFile(t *testing.T) {
	files := memFS{
		"/s.toml": `
[snippet]
open = "[["
close = "]]"

[log]
level = "debug"
`,
		"/s.yaml": `
history:
  max_entries: 10
`,
	}

	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, cfg *Config)
	}{
		{"toml", "/s.toml", func(t *testing.T, cfg *Config) {
			if cfg.Snippet.Open != "[[" || cfg.Snippet.Close != "]]" {
				t.Errorf("delimiters not loaded: %+v", cfg.Snippet)
			}
			if cfg.LogLevel() != logging.LevelDebug {
				t.Errorf("log level not loaded: %q", cfg.Log.Level)
			}
			if cfg.History.MaxEntries != 1000 {
				t.Errorf("unset values should keep defaults, got %d", cfg.History.MaxEntries)
			}
		}},
		{"yaml", "/s.yaml", func(t *testing.T, cfg *Config) {
			if cfg.History.MaxEntries != 10 {
				t.Errorf("max entries not loaded: %d", cfg.History.MaxEntries)
			}
		}},
		{"missing file", "/none.toml", func(t *testing.T, cfg *Config) {
			if *cfg != *Default() {
				t.Errorf("missing file should yield defaults, got %+v", cfg)
			}
		}},
		{"no file", "", func(t *testing.T, cfg *Config) {
			if *cfg != *Default() {
				t.Errorf("expected defaults, got %+v", cfg)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.path, WithFileSystem(files), noEnv())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	files := memFS{"/s.toml": "[history]\nmax_entries = 10\n"}
	env := staticEnv{"history": map[string]any{"max_entries": "25"}}

	cfg, err := Load("/s.toml", WithFileSystem(files), WithEnvLoader(env))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.History.MaxEntries != 25 {
		t.Errorf("environment should win, got %d", cfg.History.MaxEntries)
	}
}

func TestLoadFromProcessEnvironment(t *testing.T) {
	t.Setenv("SNIPSTORMTEST_LOG_LEVEL", "error")
	t.Setenv("SNIPSTORMTEST_SNIPPET_CLOSE", "]]")

	cfg, err := Load("", WithEnvPrefix("SNIPSTORMTEST_"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel() != logging.LevelError {
		t.Errorf("unexpected level %q", cfg.Log.Level)
	}
	if cfg.Snippet.Close != "]]" {
		t.Errorf("unexpected close %q", cfg.Snippet.Close)
	}
}

func TestLoadErrors(t *testing.T) {
	files := memFS{
		"/bad.toml":   "[history]\nmax_entries = \"lots\"\n",
		"/zero.yaml":  "history:\n  max_entries: 0\n",
		"/same.toml":  "[snippet]\nopen = \"%%\"\nclose = \"%%\"\n",
		"/level.toml": "[log]\nlevel = \"chatty\"\n",
		"/parse.toml": "[log\n",
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"wrong type", "/bad.toml", ErrTypeMismatch},
		{"non-positive", "/zero.yaml", ErrValidationFailed},
		{"same delimiters", "/same.toml", ErrValidationFailed},
		{"bad level", "/level.toml", ErrValidationFailed},
		{"unsupported format", "/s.json", loader.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, WithFileSystem(files), noEnv())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("parse error", func(t *testing.T) {
		_, err := Load("/parse.toml", WithFileSystem(files), noEnv())
		var perr *loader.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("expected ParseError, got %v", err)
		}
	})
}

func TestValidationErrorDetail(t *testing.T) {
	cfg := Default()
	cfg.History.MaxEntries = -1

	var verr *ValidationError
	if err := cfg.Validate(); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "history.max_entries" || verr.Value != -1 {
		t.Errorf("unexpected detail %+v", verr)
	}
}

func TestCodec(t *testing.T) {
	cfg := Default()
	cfg.Snippet.Open, cfg.Snippet.Close = "${", "}$"

	codec, err := cfg.Codec()
	if err != nil {
		t.Fatal(err)
	}
	if got := codec.Placeholder(1, "x"); got != "${1:x}$" {
		t.Errorf("unexpected placeholder %q", got)
	}
}
