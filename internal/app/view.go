package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"apiscout/internal/ui/styles"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimaryColor)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextSecondaryColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(styles.SpinnerColor)

	scanningStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor)
)

// View implements tea.Model. Overlays composite over the main surface
// and the final frame is scanned for click zones.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	view := m.renderMain()

	switch m.view {
	case ViewTarget:
		view = m.target.Overlay(view)
	case ViewNotice:
		view = m.notice.Overlay(view)
	case ViewDetails:
		view = m.details.Overlay(view)
	case ViewHelp:
		view = m.help.Overlay(view)
	}

	view = m.logs.Overlay(view)
	view = m.toast.Overlay(view)

	return zone.Scan(view)
}

// renderMain stacks the header, table, action menu, and bottom bar.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(detectedHeading))
	b.WriteString("\n")
	b.WriteString(m.table.ViewWithSelection(m.highlightRow))
	b.WriteString("\n")
	b.WriteString(m.menu.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.renderErrorBar())
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m Model) renderHeader() string {
	header := headerStyle.Render(headerTitle)
	if m.loading {
		header += "  " + spinnerStyle.Render(spinnerFrames[m.spinnerFrame]) +
			" " + scanningStyle.Render(scanningLabel)
	}
	return header
}

func (m Model) renderStatusBar() string {
	content := "scanning · ? help · q quit"
	if m.registry != nil {
		locals, browsers := kindCounts(m.registry)
		content = fmt.Sprintf("%d local · %d browser · refreshed %s · ? help · q quit",
			locals, browsers, m.registry.TakenAt().Format("15:04:05"))
	}
	return styles.StatusBarStyle.Width(m.width).Render(content)
}

func (m Model) renderErrorBar() string {
	msg := "Error"
	if m.errContext != "" {
		msg += " " + m.errContext
	}
	msg += ": " + m.err.Error() + "  [Press any key to dismiss]"
	return styles.ErrorStyle.Width(m.width).Render(msg)
}
