package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"github.com/strrl/ask-user/internal/config"
	"github.com/strrl/ask-user/internal/history"
	"github.com/strrl/ask-user/pkg/models"
)

const previewWidth = 60

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show recent dialog results",
		Long: `Show recorded dialog results without opening the dialog.
Without arguments: lists the most recent entries
With an entry ID: prints that entry in full`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to list")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := history.New(cfg.History.Path)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		return showEntry(cmd, out, store, args[0])
	}
	return listEntries(cmd, out, store, limit)
}

func listEntries(cmd *cobra.Command, out io.Writer, store *history.Store, limit int) error {
	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history found")
		return nil
	}

	fmt.Fprintln(out, "History:")
	fmt.Fprintln(out, "========")
	for i, entry := range entries {
		fmt.Fprintf(out, "%d. %s [%s]\n", i+1, entry.CreatedAt.Local().Format("2006-01-02 15:04"), entry.Status)
		fmt.Fprintf(out, "   ID: %s\n", entry.ID)
		fmt.Fprintf(out, "   Prompt: %s\n", preview(entry.Prompt))
		if entry.Content != "" {
			fmt.Fprintf(out, "   Content: %s\n", preview(entry.Content))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func showEntry(cmd *cobra.Command, out io.Writer, store *history.Store, id string) error {
	entry, err := store.Get(cmd.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no history entry with id %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	fmt.Fprintf(out, "ID:        %s\n", entry.ID)
	fmt.Fprintf(out, "Time:      %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Status:    %s\n", entry.Status)
	fmt.Fprintf(out, "Directory: %s\n", entry.Directory)
	fmt.Fprintf(out, "Countdown: %ds\n", entry.Countdown)
	fmt.Fprintf(out, "Piped:     %t\n", entry.Piped)
	fmt.Fprintf(out, "Prompt:    %s\n", entry.Prompt)
	if entry.Status != models.StatusCancelled {
		fmt.Fprintln(out, "==========================================")
		fmt.Fprintln(out, entry.Content)
	}
	return nil
}

// preview flattens text to one line and shortens it for listings.
func preview(text string) string {
	line := strings.Join(strings.Fields(text), " ")
	return truncate.StringWithTail(line, previewWidth, "...")
}
