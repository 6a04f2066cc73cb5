package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Setup initializes the global slog logger using charmbracelet/log as the backend.
// Logs go to path when set, otherwise to stderr. Stderr only carries warnings
// unless verbose, since the dialog draws on the same terminal.
// The returned func closes the log file, if any.
func Setup(verbose bool, path string) (func(), error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() {}
		tty               = isTerminal(os.Stderr)
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		tty = false
		closeFn = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(NewHandler(out, verbose, path != "", tty)))
	return closeFn, nil
}

// NewHandler builds the charmbracelet handler. A dedicated log file gets
// info level even without verbose.
func NewHandler(w io.Writer, verbose, toFile, tty bool) *charmlog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "ask-user",
	})

	switch {
	case verbose:
		handler.SetLevel(charmlog.DebugLevel)
	case toFile:
		handler.SetLevel(charmlog.InfoLevel)
	default:
		handler.SetLevel(charmlog.WarnLevel)
	}

	// Use plain format for non-TTY output
	if !tty {
		handler.SetFormatter(charmlog.JSONFormatter)
	}
	return handler
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
