// Package picker provides a generic option picker overlay.
package picker

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"apiscout/internal/ui/overlay"
	"apiscout/internal/ui/styles"
)

const defaultBoxWidth = 25

// Option represents a picker option with label and value.
type Option struct {
	Label string
	Value string
	Color lipgloss.TerminalColor // optional color for the label
}

// Config assembles a picker in one call.
type Config struct {
	Title    string
	Options  []Option
	Selected int    // initial cursor position
	Cursor   string // cursor prefix, default "> "

	// ZonePrefix, when set, wraps each option line in a bubblezone mark
	// with the id "<prefix><index>" so the owner can hit-test clicks.
	ZonePrefix string

	// OnSelect produces the message sent when an option is chosen.
	OnSelect func(opt Option) tea.Msg
	// OnCancel produces the message sent when the picker is dismissed.
	// When nil, dismissal sends CancelMsg.
	OnCancel func() tea.Msg
}

// CancelMsg is sent on dismissal when no OnCancel callback is set.
type CancelMsg struct{}

// Model holds the picker state.
type Model struct {
	config         Config
	selected       int
	boxWidth       int // width of the picker box itself
	viewportWidth  int // full viewport width for overlay centering
	viewportHeight int // full viewport height for overlay centering
}

// NewWithConfig creates a picker from the given config.
// An out-of-range Selected index falls back to the first option.
func NewWithConfig(cfg Config) Model {
	if cfg.Cursor == "" {
		cfg.Cursor = "> "
	}

	m := Model{config: cfg}
	if cfg.Selected > 0 && cfg.Selected < len(cfg.Options) {
		m.selected = cfg.Selected
	}
	return m
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// SetBoxWidth overrides the default width of the picker box.
func (m Model) SetBoxWidth(width int) Model {
	m.boxWidth = width
	return m
}

// Selected returns the currently selected option.
func (m Model) Selected() Option {
	if m.selected >= 0 && m.selected < len(m.config.Options) {
		return m.config.Options[m.selected]
	}
	return Option{}
}

// SelectedIndex returns the cursor position.
func (m Model) SelectedIndex() int {
	return m.selected
}

// Update handles navigation and confirmation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down", "ctrl+n":
		if m.selected < len(m.config.Options)-1 {
			m.selected++
		}
	case "k", "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
	case "enter":
		if len(m.config.Options) == 0 || m.config.OnSelect == nil {
			return m, nil
		}
		opt := m.Selected()
		onSelect := m.config.OnSelect
		return m, func() tea.Msg { return onSelect(opt) }
	case "esc":
		if m.config.OnCancel != nil {
			onCancel := m.config.OnCancel
			return m, func() tea.Msg { return onCancel() }
		}
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, nil
}

// View renders the picker box without positioning.
func (m Model) View() string {
	width := m.boxWidth
	if width == 0 {
		width = defaultBoxWidth
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	blank := strings.Repeat(" ", lipgloss.Width(m.config.Cursor))

	var options strings.Builder
	for i, opt := range m.config.Options {
		labelStyle := lipgloss.NewStyle()
		if opt.Color != nil {
			labelStyle = labelStyle.Foreground(opt.Color)
		}

		var line string
		if i == m.selected {
			cursor := styles.SelectionIndicatorStyle.Render(m.config.Cursor)
			line = cursor + labelStyle.Bold(true).Render(opt.Label)
		} else {
			line = blank + labelStyle.Render(opt.Label)
		}
		if m.config.ZonePrefix != "" {
			line = zone.Mark(m.config.ZonePrefix+strconv.Itoa(i), line)
		}
		options.WriteString(line)
		if i < len(m.config.Options)-1 {
			options.WriteString("\n")
		}
	}

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", width))

	content := titleStyle.Render(m.config.Title) + "\n" +
		divider + "\n" +
		options.String()

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	return boxStyle.Render(content)
}

// Overlay renders the picker centered on top of a background view.
func (m Model) Overlay(background string) string {
	box := m.View()

	if background == "" {
		return lipgloss.Place(
			m.viewportWidth, m.viewportHeight,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Center,
	}, box, background)
}

// FindIndexByValue returns the index of the option with the given value,
// or 0 when no option matches.
func FindIndexByValue(options []Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return 0
}
