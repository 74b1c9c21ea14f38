package main

import (
	"bytes"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/logging"
)

const callSnippet = `
name = "call"
document = "x := ;"
col = 5

[[parts]]
text = "foo("

[[parts]]
var = 1
default = [{ text = "bar" }]

[[parts]]
text = ", "

[[parts]]
var = 1
lua = "s:upper()"

[[parts]]
text = ")"

[[parts]]
terminal = true
`

func writeSnippet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "call.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		steps string
		want  string
	}{
		{
			name:  "complete",
			steps: "\n[[steps]]\nbackspace = 3\ntype = \"x\"\nadvance = 1\n",
			want:  "x := foo(x, X);\n--\ncursor 0:14\nstate done\n",
		},
		{
			name:  "cancelled",
			steps: "\n[[steps]]\nadvance = -1\n",
			want:  "x := foo(<{1:bar}>, <{1}>)<{0}>;\n--\ncursor 0:16\nstate cancelled\n",
		},
		{
			name: "left open",
			want: "x := foo(<{1:bar}>, <{1}>)<{0}>;\n--\ncursor 0:16\nstate active\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSnippet(t, callSnippet+tt.steps)

			var out bytes.Buffer
			err := expand(config.Default(), options{SnippetPath: path}, logging.Null(), &out)
			if err != nil {
				t.Fatalf("expand failed: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("got\n%s\nwant\n%s", out.String(), tt.want)
			}
		})
	}
}

func TestExpandErrors(t *testing.T) {
	cfg := config.Default()

	if err := expand(cfg, options{SnippetPath: filepath.Join(t.TempDir(), "missing.toml")}, logging.Null(), &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing snippet file")
	}

	path := writeSnippet(t, "row = 3\n"+callSnippet)
	if err := expand(cfg, options{SnippetPath: path}, logging.Null(), &bytes.Buffer{}); err == nil {
		t.Error("expected error for cursor outside the document")
	}
}

func TestForwardInterrupts(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	defer screen.Fini()

	t.Run("signal", func(t *testing.T) {
		signals := make(chan os.Signal, 1)
		stop := forwardInterrupts(screen, signals)
		defer stop()
		signals <- syscall.SIGINT

		// Skip anything the screen queued on Init.
		for range 4 {
			if _, ok := screen.PollEvent().(*tcell.EventInterrupt); ok {
				return
			}
		}
		t.Error("expected an interrupt event")
	})

	t.Run("no signal", func(t *testing.T) {
		// stop returns only once the forwarding goroutine has exited.
		stop := forwardInterrupts(screen, make(chan os.Signal))
		stop()
	})
}
