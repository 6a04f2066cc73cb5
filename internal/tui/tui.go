package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/ask-user/internal/prompt"
)

// Options configures the dialog program.
type Options struct {
	Prompt      string
	Injected    string
	Countdown   int
	Placeholder string
	SubmitLabel string
	CancelLabel string
	Warning     string
	// Title defaults to the working directory name.
	Title     string
	Width     int
	Height    int
	AltScreen bool
	// TickInterval defaults to one second.
	TickInterval time.Duration
	// Input and Output default to the controlling terminal and stderr.
	Input  io.Reader
	Output io.Writer
	Logger *slog.Logger
}

type focusTarget int

const (
	focusText focusTarget = iota
	focusSubmit
	focusCancel
	focusCount
)

type model struct {
	opts   Options
	ctrl   *prompt.Controller
	buffer *textBuffer
	sched  *tickScheduler

	focus       focusTarget
	submitLabel string
	warning     string
	// cmds raised outside Update's return path, such as Warn moving focus
	cmds []tea.Cmd

	width  int
	height int
}

// newModel builds the dialog model and initializes the controller, so piped
// content is loaded and the countdown armed before the program starts.
func newModel(opts Options) *model {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 10
	}
	if opts.CancelLabel == "" {
		opts.CancelLabel = "Cancel"
	}
	if opts.Title == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.Title = filepath.Base(wd)
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := &model{
		opts:   opts,
		buffer: newTextBuffer(opts.Width-2, opts.Height),
		sched:  newTickScheduler(),
		focus:  focusText,
		width:  opts.Width,
	}
	m.ctrl = prompt.NewController(prompt.Options{
		PromptText:   opts.Prompt,
		Injected:     opts.Injected,
		Countdown:    opts.Countdown,
		Placeholder:  opts.Placeholder,
		SubmitLabel:  opts.SubmitLabel,
		Warning:      opts.Warning,
		TickInterval: opts.TickInterval,
		Logger:       opts.Logger,
	}, m.buffer, m, m.sched)
	m.buffer.onChange = m.ctrl.OnContentModified
	m.ctrl.Initialize()
	return m
}

// SetSubmitLabel implements prompt.Surface.
func (m *model) SetSubmitLabel(label string) { m.submitLabel = label }

// Warn implements prompt.Surface. Focus returns to the text area.
func (m *model) Warn(message string) {
	m.warning = message
	if cmd := m.setFocus(focusText); cmd != nil {
		m.cmds = append(m.cmds, cmd)
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.sched.Drain(), m.buffer.Focus())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case countdownTickMsg:
		m.sched.Deliver(msg.id)

	case tea.BlurMsg:
		m.ctrl.OnFocusLost()

	case tea.FocusMsg:
		// Regaining focus is not engagement.

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		cmds = append(cmds, m.buffer.Update(msg))
	}

	if m.ctrl.Done() {
		return m, tea.Quit
	}
	cmds = append(cmds, m.cmds...)
	m.cmds = nil
	cmds = append(cmds, m.sched.Drain())
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ctrl.Cancel()
		return nil
	case "ctrl+s", "alt+enter":
		m.ctrl.Submit()
		return nil
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus != focusText {
		switch msg.String() {
		case "enter", " ":
			m.activate(m.focus)
		case "left", "right":
			return m.setFocus(focusSubmit + (m.focus-focusSubmit+1)%2)
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+a":
		m.ctrl.SelectAll()
		return nil
	case "ctrl+z":
		// The buffer's change hook reports a successful undo as an edit.
		if m.buffer.Undo() {
			m.warning = ""
		}
		return nil
	case "ctrl+y":
		if m.buffer.Redo() {
			m.warning = ""
		}
		return nil
	}

	m.warning = ""
	m.ctrl.OnUserEdit()
	return m.buffer.Update(msg)
}

// handleMouse treats any pointer activity as engagement. Clicks are only
// hit-tested on the alternate screen, where view rows match screen rows.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	m.ctrl.OnPointerEnter()

	if !m.opts.AltScreen {
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	_, zones := m.layout()
	for _, z := range zones {
		if z.contains(msg.X, msg.Y) {
			if z.target == focusText {
				return m.setFocus(focusText)
			}
			m.activate(z.target)
			return nil
		}
	}
	return nil
}

func (m *model) activate(target focusTarget) {
	switch target {
	case focusSubmit:
		m.ctrl.Submit()
	case focusCancel:
		m.ctrl.Cancel()
	}
}

// setFocus moves focus inside the dialog. Leaving the text area is a focus
// loss for the controller.
func (m *model) setFocus(target focusTarget) tea.Cmd {
	if target == m.focus {
		return nil
	}
	prev := m.focus
	m.focus = target
	if prev == focusText {
		m.buffer.Blur()
		m.ctrl.OnFocusLost()
	}
	if target == focusText {
		return m.buffer.Focus()
	}
	return nil
}

func (m *model) resize(width, height int) {
	m.width = width
	m.height = height
	w := min(width, m.opts.Width)
	if w < 20 {
		w = 20
	}
	h := m.opts.Height
	if height > 0 && height-chromeHeight < h {
		h = max(height-chromeHeight, 3)
	}
	m.buffer.SetSize(w-2, h)
}

// Outcome returns the session result once the program has exited.
func (m *model) Outcome() prompt.Outcome { return m.ctrl.Session().Outcome() }

// Run shows the dialog and blocks until the user submits or cancels.
func Run(opts Options) (prompt.Outcome, error) {
	m := newModel(opts)

	progOpts := []tea.ProgramOption{
		tea.WithReportFocus(),
		tea.WithMouseAllMotion(),
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	} else {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	} else {
		progOpts = append(progOpts, tea.WithOutput(os.Stderr))
	}

	finalModel, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return prompt.Outcome{}, err
	}
	return finalModel.(*model).Outcome(), nil
}
