package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/strrl/ask-user/internal/config"
	"github.com/strrl/ask-user/internal/history"
	"github.com/strrl/ask-user/internal/input"
	"github.com/strrl/ask-user/internal/logging"
	"github.com/strrl/ask-user/internal/prompt"
	"github.com/strrl/ask-user/internal/tui"
	"github.com/strrl/ask-user/pkg/models"
)

// version is set at build time via -ldflags.
var version = "dev"

// ErrCancelled reports that the user closed the dialog without submitting.
var ErrCancelled = errors.New("user cancelled the input")

// cancelError carries the configured notice while matching ErrCancelled.
type cancelError struct {
	notice string
}

func (e *cancelError) Error() string        { return e.notice }
func (e *cancelError) Is(target error) bool { return target == ErrCancelled }

// showDialog runs the interactive dialog; tests replace it.
var showDialog = tui.Run

type rootOptions struct {
	countdown   int
	placeholder string
	noAltScreen bool
	noHistory   bool
	verbose     bool
	logFile     string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ask-user [prompt]",
		Short: "Ask the user for text input and print it to stdout",
		Long: `ask-user shows a text-entry dialog in the terminal and blocks until the user
submits or cancels. Submitted text is written to stdout; cancelling exits non-zero.
Text piped on stdin pre-fills the dialog, and a countdown auto-submits it unless
the user interacts first.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialog(cmd, args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVarP(&opts.countdown, "countdown", "c", config.DefaultConfig().Dialog.Countdown, "Seconds before piped content is auto-submitted (0 disables)")
	flags.StringVar(&opts.placeholder, "placeholder", "", "Placeholder shown while the text area is empty")
	flags.BoolVar(&opts.noAltScreen, "no-alt-screen", false, "Draw inline instead of on the alternate screen")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record this dialog in the history file (submitted text is stored in plain text unless history.store_content is false)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(NewHistoryCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// applyFlags layers explicitly set flags over the loaded config.
func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("countdown") {
		cfg.Dialog.Countdown = o.countdown
	}
	if cfg.Dialog.Countdown < 0 {
		cfg.Dialog.Countdown = 0
	}
	if flags.Changed("placeholder") {
		cfg.Dialog.Placeholder = o.placeholder
	}
	if o.noAltScreen {
		cfg.Dialog.AltScreen = false
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	if o.verbose {
		cfg.Log.Verbose = true
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
}

func runDialog(cmd *cobra.Command, args []string, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.applyFlags(cmd, cfg)
	if len(args) == 1 {
		cfg.Dialog.Prompt = args[0]
	}

	closeLog, err := logging.Setup(cfg.Log.Verbose, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	injected, err := readInjected(cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, closeOut := openTerminal()
	defer closeOut()

	outcome, err := showDialog(tui.Options{
		Prompt:      cfg.Dialog.Prompt,
		Injected:    injected,
		Countdown:   cfg.Dialog.Countdown,
		Placeholder: cfg.Dialog.Placeholder,
		SubmitLabel: cfg.Dialog.SubmitLabel,
		CancelLabel: cfg.Dialog.CancelLabel,
		Warning:     cfg.Dialog.Warning,
		Width:       cfg.Dialog.Width,
		Height:      cfg.Dialog.Height,
		AltScreen:   cfg.Dialog.AltScreen,
		Output:      out,
		Logger:      slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("dialog failed: %w", err)
	}

	if cfg.History.Enabled {
		recordHistory(cfg, injected != "", outcome)
	}

	if !outcome.Submitted {
		return &cancelError{notice: cfg.Dialog.CancelNotice}
	}
	fmt.Fprintln(cmd.OutOrStdout(), outcome.Content)
	return nil
}

// readInjected returns piped stdin content. An interactive terminal yields "".
func readInjected(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && !input.Available(f) {
		return "", nil
	}
	text, encoding, err := input.ReadPiped(in)
	if err != nil {
		return "", err
	}
	if text != "" {
		slog.Debug("read piped input", "encoding", encoding, "bytes", len(text))
	}
	return text, nil
}

// openTerminal opens the controlling terminal for drawing so stdout stays
// clean. A nil writer makes the dialog fall back to stderr.
func openTerminal() (io.Writer, func()) {
	f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		slog.Debug("no controlling terminal, drawing on stderr", "error", err)
		return nil, func() {}
	}
	return f, func() { _ = f.Close() }
}

func recordHistory(cfg *config.Config, piped bool, outcome prompt.Outcome) {
	status := models.StatusCancelled
	switch {
	case outcome.Submitted && outcome.Auto:
		status = models.StatusAutoSubmitted
	case outcome.Submitted:
		status = models.StatusSubmitted
	}
	content := outcome.Content
	if !cfg.History.StoreContent {
		content = ""
	}
	dir, _ := os.Getwd()

	store := history.New(cfg.History.Path)
	entry, err := store.Append(models.HistoryEntry{
		Prompt:    cfg.Dialog.Prompt,
		Status:    status,
		Content:   content,
		Countdown: cfg.Dialog.Countdown,
		Piped:     piped,
		Directory: dir,
	})
	if err != nil {
		slog.Warn("failed to record history", "error", err)
		return
	}
	slog.Debug("recorded history", "id", entry.ID, "status", status)
}
