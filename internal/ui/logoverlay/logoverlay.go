// Package logoverlay provides an in-app log viewer overlay that shows
// recent log records without leaving the TUI.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"apiscout/internal/log"
	"apiscout/internal/ui/overlay"
	"apiscout/internal/ui/styles"
)

const (
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
	fetchLimit        = 10000
)

// CloseMsg is sent when the overlay should be closed.
type CloseMsg struct{}

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
	ready    bool
}

// New creates a new log overlay model.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Update handles messages while the overlay is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			log.ClearBuffer()
			return m.refresh(), nil

		case "d":
			m.minLevel = log.LevelDebug
			return m.refresh(), nil

		case "i":
			m.minLevel = log.LevelInfo
			return m.refresh(), nil

		case "w":
			m.minLevel = log.LevelWarn
			return m.refresh(), nil

		case "e":
			m.minLevel = log.LevelError
			return m.refresh(), nil

		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil

		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil

		case "g":
			m.viewport.GotoTop()
			return m, nil

		case "G":
			m.viewport.GotoBottom()
			return m, nil

		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+x", "esc":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.refresh(), nil
	}

	return m, nil
}

// View renders the log overlay content.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	dividerStyle := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var result strings.Builder
	result.WriteString(titleStyle.Render("Logs"))
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	result.WriteString(m.viewport.View())
	result.WriteString("\n")
	result.WriteString(divider)
	result.WriteString("\n")
	result.WriteString(m.buildFilterHint())

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth)

	return boxStyle.Render(result.String())
}

// Overlay renders the log overlay centered on the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Visible returns whether the overlay is currently visible.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips visibility.
func (m Model) Toggle() Model {
	if m.visible {
		return m.Hide()
	}
	return m.Show()
}

// Show opens the overlay jumped to the newest records.
func (m Model) Show() Model {
	m.visible = true
	m = m.refresh()
	if m.ready {
		m.viewport.GotoBottom()
	}
	return m
}

// Hide closes the overlay.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// SetSize updates the overlay's knowledge of terminal size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.refresh()
}

// Refresh re-reads the ring buffer. The app calls this when a log event
// arrives while the overlay is open, which keeps the view tailing live.
func (m Model) Refresh() Model {
	if !m.visible {
		return m
	}
	return m.refresh()
}

// refresh rebuilds the viewport content. Scroll position survives the
// rebuild; a view sitting at the bottom keeps following the tail.
func (m Model) refresh() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}

	contentWidth := m.contentWidth()
	// Header, footer, and borders take 6 lines around the viewport.
	viewportHeight := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.viewport.SetContent(m.buildLogContent(contentWidth))
		m.viewport.GotoBottom()
		m.ready = true
		return m
	}

	wasAtBottom := m.viewport.AtBottom()
	m.viewport.Width = contentWidth
	m.viewport.Height = viewportHeight
	m.viewport.SetContent(m.buildLogContent(contentWidth))
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
	return m
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// getFilteredLogs returns records matching the current filter level.
func (m Model) getFilteredLogs() []string {
	var filtered []string
	for _, entry := range log.GetRecentLogs(fetchLimit) {
		if m.matchesLevel(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// buildLogContent builds the viewport content string.
func (m Model) buildLogContent(contentWidth int) string {
	filtered := m.getFilteredLogs()

	if len(filtered) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true)
		return emptyStyle.Render("No logs to display")
	}

	lines := make([]string, 0, len(filtered))
	for _, entry := range filtered {
		lines = append(lines, m.colorizeEntry(entry, contentWidth))
	}
	return strings.Join(lines, "\n")
}

// matchesLevel reports whether a record passes the level filter. Records
// without a recognizable level marker are always shown.
func (m Model) matchesLevel(entry string) bool {
	var entryLevel log.Level
	switch {
	case strings.Contains(entry, "[ERROR]"):
		entryLevel = log.LevelError
	case strings.Contains(entry, "[WARN]"):
		entryLevel = log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		entryLevel = log.LevelInfo
	case strings.Contains(entry, "[DEBUG]"):
		entryLevel = log.LevelDebug
	default:
		return true
	}
	return entryLevel >= m.minLevel
}

// colorizeEntry styles a record by its level and truncates it to fit.
func (m Model) colorizeEntry(entry string, maxWidth int) string {
	entry = strings.TrimSuffix(entry, "\n")

	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth-3, "...")
	}

	var style lipgloss.Style
	switch {
	case strings.Contains(entry, "[ERROR]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	case strings.Contains(entry, "[WARN]"):
		style = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	case strings.Contains(entry, "[INFO]"):
		style = lipgloss.NewStyle().Foreground(styles.ToastBorderInfoColor)
	case strings.Contains(entry, "[DEBUG]"):
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	}

	return style.Render(entry)
}

// buildFilterHint creates the footer hint row with the active level bolded.
func (m Model) buildFilterHint() string {
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	activeStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Bold(true)

	hints := []string{hintStyle.Render("[c] Clear")}

	options := []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	}
	for _, opt := range options {
		if m.minLevel == opt.level {
			hints = append(hints, activeStyle.Render(opt.label))
		} else {
			hints = append(hints, hintStyle.Render(opt.label))
		}
	}

	return strings.Join(hints, "  ")
}
