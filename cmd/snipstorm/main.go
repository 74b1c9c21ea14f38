// Package main is the entry point for snipstorm, a tab-stop snippet
// expansion runner.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/engine"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/play"
	"github.com/dshills/snipstorm/internal/snippet/session"
	"github.com/dshills/snipstorm/internal/snippet/snipfile"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath  string
	LogLevel    string
	Play        bool
	SnippetPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: os.Stderr,
		Prefix: "snipstorm",
	})
	logging.SetDefault(logger)

	if err := expand(cfg, opts, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// expand loads the snippet file, begins a session on its document and
// either replays its steps or hands it to the interactive player.
func expand(cfg *config.Config, opts options, logger *logging.Logger, out io.Writer) error {
	f, err := snipfile.Load(opts.SnippetPath)
	if err != nil {
		return err
	}
	snip, err := f.Build()
	if err != nil {
		return fmt.Errorf("building snippet: %w", err)
	}
	defer snip.Close()

	codec, err := cfg.Codec()
	if err != nil {
		return err
	}

	doc := engine.New(
		engine.WithContent(f.Document),
		engine.WithMaxUndoEntries(cfg.History.MaxEntries),
	)
	if err := doc.SetCursor(f.Row, f.Col); err != nil {
		return fmt.Errorf("placing cursor at %d:%d: %w", f.Row, f.Col, err)
	}

	s, err := session.Begin(doc, snip.Template, session.WithCodec(codec), session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("beginning snippet: %w", err)
	}
	logger.Info("expanding snippet %q (%d variables)", f.Name, s.Len())

	if opts.Play {
		return interactive(doc, s, logger)
	}

	if err := play.Replay(doc, s, f.Steps); err != nil {
		return err
	}
	return report(out, doc, s)
}

func interactive(doc *engine.Document, s *session.Session, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	stop := forwardInterrupts(screen, signals)
	defer stop()

	return play.NewPlayer(screen, doc, s, logger).Run()
}

// forwardInterrupts turns the first signal into an interrupt event on
// screen. The returned stop ends the forwarding goroutine and waits for it.
func forwardInterrupts(screen tcell.Screen, signals <-chan os.Signal) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		select {
		case <-signals:
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; event queue may be full
		case <-done:
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

// report prints the final document followed by the session outcome.
func report(out io.Writer, doc *engine.Document, s *session.Session) error {
	row, col := doc.Cursor()

	state := "active"
	switch {
	case s.Done():
		state = "done"
	case s.Aborted() && s.Err() != nil:
		state = "aborted: " + s.Err().Error()
	case s.Aborted():
		state = "cancelled"
	}

	_, err := fmt.Fprintf(out, "%s\n--\ncursor %d:%d\nstate %s\n", doc.Text(), row, col, state)
	return err
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	flag.BoolVar(&opts.Play, "play", false, "Expand interactively in the terminal")
	flag.BoolVar(&opts.Play, "p", false, "Expand interactively in the terminal (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "snipstorm - tab-stop snippet expansion\n\n")
		fmt.Fprintf(os.Stderr, "Usage: snipstorm [options] snippet-file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snipstorm call.toml          Replay the file's steps and print the result\n")
		fmt.Fprintf(os.Stderr, "  snipstorm -play call.yaml    Fill in the snippet interactively\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("snipstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.SnippetPath = flag.Arg(0)

	return opts
}
