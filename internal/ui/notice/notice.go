// Package notice provides a dismissable message overlay. It is used for
// outcome reports that the user must acknowledge before the view moves
// on, such as the result of a termination attempt.
package notice

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"apiscout/internal/ui/overlay"
	"apiscout/internal/ui/styles"
)

const (
	minContentWidth = 40
	maxContentWidth = 72
	ackHint         = "Press Enter to continue..."
)

// AckMsg is sent when the notice is acknowledged.
type AckMsg struct{}

// Model holds the notice state.
type Model struct {
	title   string
	message string
	width   int // full viewport width for overlay centering
	height  int // full viewport height for overlay centering
}

// New creates a notice with the given title and message.
// The message may span multiple lines; long lines are wrapped.
func New(title, message string) Model {
	return Model{title: title, message: message}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Message returns the notice body text.
func (m Model) Message() string {
	return m.message
}

// Update dismisses the notice on enter or esc.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "enter", "esc":
		return m, func() tea.Msg { return AckMsg{} }
	}

	return m, nil
}

// View renders the notice box without positioning.
func (m Model) View() string {
	contentWidth := max(minContentWidth, lipgloss.Width(m.title), lipgloss.Width(m.message))
	contentWidth = min(contentWidth, maxContentWidth)
	if m.width > 0 {
		contentWidth = min(contentWidth, m.width-6)
	}
	message := wordwrap.String(m.message, contentWidth)
	boxWidth := contentWidth + 2

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Width(contentWidth)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	var content strings.Builder
	content.WriteString(messageStyle.Render(message))
	content.WriteString("\n\n")
	content.WriteString(hintStyle.Render(ackHint))

	var result strings.Builder
	result.WriteString(titleStyle.Render(m.title))
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	result.WriteString(lipgloss.NewStyle().Padding(1, 1).Render(content.String()))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth)

	return boxStyle.Render(result.String())
}

// Overlay renders the notice centered on top of a background view.
func (m Model) Overlay(bg string) string {
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}
