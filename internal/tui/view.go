package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/strrl/ask-user/internal/prompt"
)

// chromeHeight is the number of rows around the text area: title, blank,
// prompt, blank, box border (2), warning, footer, progress.
const chromeHeight = 9

const hintText = "ctrl+s submit • esc cancel • ctrl+a select all • tab focus"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569cd6"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#569cd6"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3e3e42"))

	focusedBoxStyle = boxStyle.BorderForeground(lipgloss.Color("#007acc"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e5c07b")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080"))

	submitButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(lipgloss.Color("#ffffff")).
				Background(lipgloss.Color("#007acc"))

	cancelButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#cccccc")).
				Background(lipgloss.Color("#3e3e42"))
)

// zone is a clickable rectangle in screen cells.
type zone struct {
	target focusTarget
	x0, x1 int
	y0, y1 int
}

func (z zone) contains(x, y int) bool {
	return x >= z.x0 && x < z.x1 && y >= z.y0 && y < z.y1
}

func (m *model) View() string {
	view, _ := m.layout()
	return view
}

// layout renders the dialog and reports where the clickable parts landed.
// Rows are counted from the top of the view.
func (m *model) layout() (string, []zone) {
	width := min(max(m.width, 20), m.opts.Width)

	var rows []string
	rows = append(rows,
		titleStyle.Render("💻 "+m.opts.Title+" - text input"),
		"",
		promptStyle.Render(wordwrap.String("💻 "+m.ctrl.Session().PromptText(), width)),
		"",
	)
	top := lipgloss.Height(strings.Join(rows, "\n"))

	box := boxStyle
	if m.focus == focusText {
		box = focusedBoxStyle
	}
	area := box.Render(m.buffer.View())
	areaHeight := lipgloss.Height(area)
	rows = append(rows, area)

	rows = append(rows, warningStyle.Render(m.warning))

	footerRow := top + areaHeight + 1
	footer, buttons := m.renderFooter(width)
	rows = append(rows, footer)

	if cd := m.ctrl.Countdown(); cd.Active() {
		rows = append(rows, renderCountdownBar(cd, width))
	}

	zones := []zone{{target: focusText, x0: 0, x1: lipgloss.Width(area), y0: top, y1: top + areaHeight}}
	for _, b := range buttons {
		b.y0, b.y1 = footerRow, footerRow+1
		zones = append(zones, b)
	}
	return strings.Join(rows, "\n"), zones
}

// renderFooter lays out the hint on the left and the buttons on the right.
func (m *model) renderFooter(width int) (string, []zone) {
	submit := submitButtonStyle
	cancel := cancelButtonStyle
	switch m.focus {
	case focusSubmit:
		submit = submit.Underline(true).Reverse(true)
	case focusCancel:
		cancel = cancel.Underline(true).Reverse(true)
	}
	submitView := submit.Render(m.submitLabel)
	cancelView := cancel.Render(m.opts.CancelLabel)

	hint := hintStyle.Render(hintText)
	buttonsWidth := lipgloss.Width(submitView) + 1 + lipgloss.Width(cancelView)
	gap := width - lipgloss.Width(hint) - buttonsWidth
	if gap < 1 {
		hint = ""
		gap = max(width-buttonsWidth, 0)
	}

	x := lipgloss.Width(hint) + gap
	zones := []zone{
		{target: focusSubmit, x0: x, x1: x + lipgloss.Width(submitView)},
	}
	x += lipgloss.Width(submitView) + 1
	zones = append(zones, zone{target: focusCancel, x0: x, x1: x + lipgloss.Width(cancelView)})

	return hint + strings.Repeat(" ", gap) + submitView + " " + cancelView, zones
}

// renderCountdownBar shows how much of the countdown is left
func renderCountdownBar(cd *prompt.Countdown, width int) string {
	total := cd.Total()
	if total <= 0 {
		return ""
	}
	barWidth := max(width/2, 10)
	filled := barWidth * cd.Remaining() / total
	empty := barWidth - filled

	barStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	return hintStyle.Render("auto-submit ") +
		barStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", empty))
}
