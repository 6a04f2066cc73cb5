package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/ask-user/internal/db"
	"github.com/strrl/ask-user/internal/history"
	"github.com/strrl/ask-user/internal/prompt"
	"github.com/strrl/ask-user/internal/tui"
	"github.com/strrl/ask-user/pkg/models"
)

type harness struct {
	historyPath string
	seen        tui.Options
	calls       int
}

// newHarness isolates config and history in a temp dir and stubs the dialog.
func newHarness(t *testing.T, outcome prompt.Outcome, dialogErr error) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{historyPath: filepath.Join(dir, "history.jsonl")}

	t.Setenv("ASK_USER_CONFIG", filepath.Join(dir, "config.jsonc"))
	t.Setenv("ASK_USER_HISTORY_PATH", h.historyPath)
	t.Setenv("ASK_USER_COUNTDOWN", "")
	t.Setenv("ASK_USER_HISTORY", "")
	t.Setenv("ASK_USER_LOG_FILE", "")

	prev := showDialog
	showDialog = func(opts tui.Options) (prompt.Outcome, error) {
		h.calls++
		h.seen = opts
		return outcome, dialogErr
	}
	t.Cleanup(func() { showDialog = prev })
	return h
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSubmitPrintsContent(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "line one\nline two", Submitted: true}, nil)

	out, err := execute(t, "", "What changed?")
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two\n", out)
	assert.Equal(t, "What changed?", h.seen.Prompt)
	assert.Equal(t, 60, h.seen.Countdown)
	assert.Empty(t, h.seen.Injected)
	assert.True(t, h.seen.AltScreen)

	data, err := os.ReadFile(h.historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"submitted"`)
	assert.Contains(t, string(data), `"piped":false`)
}

func TestDefaultPrompt(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "x", Submitted: true}, nil)

	_, err := execute(t, "")
	require.NoError(t, err)
	assert.Equal(t, "Please enter your content:", h.seen.Prompt)
}

func TestPipedInputIsInjected(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "draft", Submitted: true, Auto: true}, nil)

	_, err := execute(t, "draft\r\n", "Review")
	require.NoError(t, err)

	assert.Equal(t, "draft", h.seen.Injected)
	data, err := os.ReadFile(h.historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"auto-submitted"`)
	assert.Contains(t, string(data), `"piped":true`)
}

// TestPipedInputRoundTrip runs the real dialog headless: piped text is
// auto-submitted untouched and reaches stdout byte for byte.
func TestPipedInputRoundTrip(t *testing.T) {
	h := newHarness(t, prompt.Outcome{}, nil)
	var screen bytes.Buffer
	showDialog = func(opts tui.Options) (prompt.Outcome, error) {
		h.calls++
		h.seen = opts
		opts.Input = strings.NewReader("")
		opts.Output = &screen
		opts.TickInterval = time.Millisecond
		return tui.Run(opts)
	}

	out, err := execute(t, "col1\tcol2\r\nrow2\r\n\r\nlast\r\n", "-c", "2", "Review")
	require.NoError(t, err)

	assert.Equal(t, "col1\tcol2\nrow2\n\nlast\n", out)
	assert.Equal(t, 1, h.calls)
	assert.NotEmpty(t, screen.String(), "the dialog draws off stdout")

	data, err := os.ReadFile(h.historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"auto-submitted"`)
	assert.Contains(t, string(data), `"content":"col1\tcol2\nrow2\n\nlast"`)
}

func TestHistoryWithoutContent(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "secret", Submitted: true}, nil)
	dir := filepath.Dir(h.historyPath)
	cfgPath := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"history": {"store_content": false}}`), 0o644))

	out, err := execute(t, "", "Password hint?")
	require.NoError(t, err)
	assert.Equal(t, "secret\n", out)

	data, err := os.ReadFile(h.historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"submitted"`)
	assert.NotContains(t, string(data), "secret")
}

func TestCancelReturnsErrCancelled(t *testing.T) {
	h := newHarness(t, prompt.Outcome{}, nil)

	out, err := execute(t, "")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Equal(t, "user cancelled the input", err.Error())
	assert.Empty(t, out)

	data, err := os.ReadFile(h.historyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"cancelled"`)
}

func TestDialogFailure(t *testing.T) {
	newHarness(t, prompt.Outcome{}, errors.New("no tty"))

	_, err := execute(t, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCancelled))
	assert.Contains(t, err.Error(), "no tty")
}

func TestFlagsOverrideConfig(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "ok", Submitted: true}, nil)

	_, err := execute(t, "", "--countdown=-5", "--placeholder", "say something", "--no-alt-screen", "--no-history")
	require.NoError(t, err)

	assert.Equal(t, 0, h.seen.Countdown)
	assert.Equal(t, "say something", h.seen.Placeholder)
	assert.False(t, h.seen.AltScreen)
	assert.NoFileExists(t, h.historyPath)
}

func TestCountdownShorthand(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "ok", Submitted: true}, nil)

	_, err := execute(t, "", "-c", "5", "Quick?")
	require.NoError(t, err)
	assert.Equal(t, 5, h.seen.Countdown)
}

func TestTooManyArgs(t *testing.T) {
	h := newHarness(t, prompt.Outcome{Content: "ok", Submitted: true}, nil)

	_, err := execute(t, "", "one", "two")
	require.Error(t, err)
	assert.Zero(t, h.calls)
}

func TestHistoryWithoutFile(t *testing.T) {
	newHarness(t, prompt.Outcome{}, nil)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No history found\n", out)

	_, err = execute(t, "", "history", "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-id")
}

func TestHistoryListAndShow(t *testing.T) {
	if _, err := db.GetDB(); err != nil {
		t.Skipf("duckdb unavailable: %v", err)
	}
	h := newHarness(t, prompt.Outcome{}, nil)

	entry, err := history.New(h.historyPath).Append(models.HistoryEntry{
		Prompt:    "Commit message?",
		Status:    models.StatusSubmitted,
		Content:   "Fix the flaky test",
		Countdown: 30,
	})
	require.NoError(t, err)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, entry.ID)
	assert.Contains(t, out, "[submitted]")
	assert.Contains(t, out, "Prompt: Commit message?")

	out, err = execute(t, "", "history", entry.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Countdown: 30s")
	assert.True(t, strings.HasSuffix(out, "Fix the flaky test\n"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", preview("a\n b\tc  "))

	long := strings.Repeat("x", 100)
	got := preview(long)
	assert.Len(t, []rune(got), previewWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}
