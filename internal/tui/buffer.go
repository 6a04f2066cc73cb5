package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	placeholderTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6a6a6a"))
	selectedTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#264f78"))
)

// maxUndo bounds the undo history.
const maxUndo = 100

// textBuffer adapts a bubbles textarea to prompt.Buffer. It adds whole-content
// selection, placeholder styling, undo/redo and a change notification that
// fires for every value change, programmatic or typed.
//
// The textarea sanitizes what it is given (tabs become spaces, CR becomes a
// line break). Until the first edit, Value returns the string last written
// with SetValue or restored by undo, so untouched content is submitted byte
// for byte.
type textBuffer struct {
	area        textarea.Model
	selected    bool
	placeholder bool
	onChange    func()

	raw   string
	exact bool

	undo []string
	redo []string

	focusedText lipgloss.Style
	blurredText lipgloss.Style
}

func newTextBuffer(width, height int) *textBuffer {
	area := textarea.New()
	area.Prompt = ""
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.MaxHeight = 0
	area.SetWidth(width)
	area.SetHeight(height)
	area.Focus()

	return &textBuffer{
		area:        area,
		focusedText: area.FocusedStyle.Text,
		blurredText: area.BlurredStyle.Text,
	}
}

func (b *textBuffer) Value() string {
	if b.exact {
		return b.raw
	}
	return b.area.Value()
}

// SetValue replaces the content. Programmatic writes start a fresh undo history.
func (b *textBuffer) SetValue(text string) {
	before := b.Value()
	b.load(text)
	b.undo, b.redo = nil, nil
	if text != before {
		b.changed()
	}
}

// Undo restores the content before the last edit. It reports whether there
// was anything to undo.
func (b *textBuffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	prev := b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	b.redo = append(b.redo, b.Value())
	b.load(prev)
	b.changed()
	return true
}

// Redo reapplies the last undone edit.
func (b *textBuffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}
	next := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.pushUndo(b.Value())
	b.load(next)
	b.changed()
	return true
}

// SelectAll selects everything; SetValue already leaves the cursor at the end.
func (b *textBuffer) SelectAll() {
	b.selected = b.area.Value() != ""
	b.restyle()
}

func (b *textBuffer) SetPlaceholder(on bool) {
	b.placeholder = on
	b.restyle()
}

func (b *textBuffer) Selected() bool { return b.selected }

func (b *textBuffer) Focus() tea.Cmd { return b.area.Focus() }
func (b *textBuffer) Blur()          { b.area.Blur() }
func (b *textBuffer) Focused() bool  { return b.area.Focused() }

func (b *textBuffer) SetSize(width, height int) {
	b.area.SetWidth(width)
	b.area.SetHeight(height)
}

// Update forwards a message to the textarea. With an active selection an
// editing key first replaces the selected content; any other key drops it.
func (b *textBuffer) Update(msg tea.Msg) tea.Cmd {
	before := b.Value()
	areaBefore := b.area.Value()

	if key, ok := msg.(tea.KeyMsg); ok && b.selected {
		b.selected = false
		switch {
		case deletesSelection(key):
			b.area.Reset()
			b.restyle()
			if areaBefore != "" {
				b.edited(before)
			}
			return nil
		case replacesSelection(key):
			b.area.Reset()
		}
	}

	var cmd tea.Cmd
	b.area, cmd = b.area.Update(msg)
	b.restyle()
	if b.area.Value() != areaBefore {
		b.edited(before)
	}
	return cmd
}

func (b *textBuffer) View() string { return b.area.View() }

// load shows text in the textarea and remembers it verbatim.
func (b *textBuffer) load(text string) {
	b.area.SetValue(strings.ReplaceAll(text, "\r\n", "\n"))
	b.raw, b.exact = text, true
	b.selected = false
	b.restyle()
}

// edited records a typed change; from here on the textarea is authoritative.
func (b *textBuffer) edited(before string) {
	b.raw, b.exact = "", false
	b.pushUndo(before)
	b.redo = nil
	b.changed()
}

func (b *textBuffer) pushUndo(value string) {
	b.undo = append(b.undo, value)
	if len(b.undo) > maxUndo {
		b.undo = b.undo[len(b.undo)-maxUndo:]
	}
}

func (b *textBuffer) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *textBuffer) restyle() {
	focused, blurred := b.focusedText, b.blurredText
	switch {
	case b.placeholder:
		focused, blurred = placeholderTextStyle, placeholderTextStyle
	case b.selected:
		focused, blurred = selectedTextStyle, selectedTextStyle
	}
	b.area.FocusedStyle.Text = focused
	b.area.BlurredStyle.Text = blurred
}

func replacesSelection(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter, tea.KeyTab:
		return !key.Alt || key.Paste
	}
	return false
}

func deletesSelection(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
		return true
	}
	return false
}
