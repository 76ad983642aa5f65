// Package details contains the inspect overlay for a single detected API.
package details

import (
	"fmt"
	"strings"
	"time"

	"apiscout/internal/discovery"
	"apiscout/internal/ui/markdown"
	"apiscout/internal/ui/overlay"
	"apiscout/internal/ui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
)

// Box bounds. The overlay never grows past these regardless of terminal size.
const (
	maxBoxWidth  = 72
	minBoxWidth  = 32
	maxBoxHeight = 20
	minBoxHeight = 7
)

// CloseMsg is emitted when the user dismisses the overlay.
type CloseMsg struct{}

// Model holds the inspect overlay state.
type Model struct {
	entry         discovery.Entry
	capturedAt    time.Time
	viewport      viewport.Model
	mdRenderer    *markdown.Renderer
	markdownStyle string
	width         int
	height        int
	boxWidth      int
	boxHeight     int
	ready         bool
}

// New creates an inspect overlay for the given entry. capturedAt is the
// discovery cycle timestamp; the zero value omits it from the document.
// markdownStyle is "dark" or "light"; empty falls back to dark.
func New(entry discovery.Entry, capturedAt time.Time, markdownStyle string) Model {
	return Model{entry: entry, capturedAt: capturedAt, markdownStyle: markdownStyle}
}

// Entry returns the entry being inspected.
func (m Model) Entry() discovery.Entry {
	return m.entry
}

// SetSize updates terminal dimensions and (re)initializes the viewport.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	m.boxWidth = min(max(width-6, minBoxWidth), maxBoxWidth)
	m.boxHeight = min(max(height-4, minBoxHeight), maxBoxHeight)

	contentWidth := max(m.boxWidth-2, 1)
	contentHeight := max(m.boxHeight-2, 1)

	if m.mdRenderer == nil || m.mdRenderer.Width() != contentWidth {
		if r, err := markdown.New(contentWidth, m.markdownStyle); err == nil {
			m.mdRenderer = r
		}
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.viewport.SetContent(m.renderContent(contentWidth))
		m.viewport.GotoTop()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
		m.viewport.SetContent(m.renderContent(contentWidth))
	}

	return m
}

// Update handles messages. Enter and escape dismiss the overlay; everything
// else feeds the viewport so its default scroll keys keep working.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the bordered overlay box.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return styles.RenderWithTitleBorder(
		m.viewport.View(),
		"API Details",
		m.scrollIndicator(),
		m.boxWidth,
		m.boxHeight,
		true,
		styles.OverlayTitleColor,
		styles.BorderHighlightFocusColor,
	)
}

// Overlay composites the box centered over the given background.
func (m Model) Overlay(background string) string {
	if !m.ready {
		return background
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), background)
}

// scrollIndicator reports reading progress when the document overflows the
// viewport. Empty when everything fits.
func (m Model) scrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}
	return fmt.Sprintf("%.0f%%", m.viewport.ScrollPercent()*100)
}

// renderContent renders the entry document as styled markdown, falling back
// to the plain document when rendering fails.
func (m Model) renderContent(contentWidth int) string {
	doc := m.buildDocument(contentWidth)
	if m.mdRenderer != nil {
		if rendered, err := m.mdRenderer.Render(doc); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return doc
}

// buildDocument assembles the markdown source for the entry.
func (m Model) buildDocument(contentWidth int) string {
	var sb strings.Builder

	switch e := m.entry.(type) {
	case discovery.Local:
		sb.WriteString("- **Kind:** Local API\n")
		fmt.Fprintf(&sb, "- **Process:** %s\n", e.Name())
		fmt.Fprintf(&sb, "- **PID:** %s\n", discovery.PIDLabel(e))
		fmt.Fprintf(&sb, "- **Port:** %d\n", e.Port())
		fmt.Fprintf(&sb, "- **URL:** http://localhost:%d\n", e.Port())
		fmt.Fprintf(&sb, "- **Status:** %s\n", e.Status())
		m.writeCapturedAt(&sb)
		sb.WriteString("\n**Command**\n\n")
		if cmdline := e.Cmdline(); cmdline != "" {
			wrapped := wordwrap.String(cmdline, max(contentWidth-4, 10))
			fmt.Fprintf(&sb, "```\n%s\n```\n", wrapped)
		} else {
			sb.WriteString("_Command line not available._\n")
		}
	case discovery.Browser:
		sb.WriteString("- **Kind:** Browser API\n")
		fmt.Fprintf(&sb, "- **Process:** %s\n", e.Name())
		fmt.Fprintf(&sb, "- **PID:** %s\n", discovery.PIDLabel(e))
		fmt.Fprintf(&sb, "- **Endpoint:** %s\n", e.Endpoint())
		fmt.Fprintf(&sb, "- **Status:** %s\n", e.Status())
		m.writeCapturedAt(&sb)
		sb.WriteString("\n_Served to a browser tab. Close the tab to disconnect._\n")
	default:
		fmt.Fprintf(&sb, "- **Process:** %s\n", m.entry.Name())
		fmt.Fprintf(&sb, "- **PID:** %s\n", discovery.PIDLabel(m.entry))
		fmt.Fprintf(&sb, "- **Status:** %s\n", m.entry.Status())
		m.writeCapturedAt(&sb)
	}

	return sb.String()
}

// writeCapturedAt appends the cycle timestamp bullet when one is set.
func (m Model) writeCapturedAt(sb *strings.Builder) {
	if m.capturedAt.IsZero() {
		return
	}
	fmt.Fprintf(sb, "- **Captured:** %s\n", m.capturedAt.Format("2006-01-02 15:04:05"))
}
