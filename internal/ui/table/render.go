package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"apiscout/internal/ui/styles"
)

var selectionBgStyle = lipgloss.NewStyle().Background(styles.SelectionBackgroundColor)

// renderHeader renders the header row with column alignment applied.
func renderHeader(cols []ColumnConfig, widths []int) string {
	if len(cols) == 0 || len(widths) == 0 {
		return ""
	}

	parts := make([]string, 0, len(cols))
	for i, col := range cols {
		header := col.Header
		if lipgloss.Width(header) > widths[i] {
			header = styles.TruncateString(header, widths[i])
		}
		parts = append(parts, alignText(header, widths[i], col.Align))
	}

	return strings.Join(parts, " ")
}

// renderRow renders one data row. fullWidth is the total row width, used
// to extend the selection background to the right edge.
func renderRow(row any, cols []ColumnConfig, widths []int, selected bool, fullWidth int) string {
	if len(cols) == 0 || len(widths) == 0 {
		return ""
	}

	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			if selected {
				b.WriteString(selectionBgStyle.Render(" "))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(renderCell(row, col, widths[i], selected))
	}

	line := b.String()
	if selected {
		if w := lipgloss.Width(line); w < fullWidth {
			line += selectionBgStyle.Render(strings.Repeat(" ", fullWidth-w))
		}
	}

	return line
}

// renderCell renders a single aligned cell. Selected cells get the
// selection background applied to the content and its padding; each
// segment needs the background individually because pre-styled content
// cannot simply be wrapped in another style.
func renderCell(row any, col ColumnConfig, width int, selected bool) string {
	content := safeRender(row, col, width, selected)
	if lipgloss.Width(content) > width {
		content = styles.TruncateString(content, width)
	}

	if !selected {
		return alignText(content, width, col.Align)
	}

	leftPad, rightPad := alignPadding(lipgloss.Width(content), width, col.Align)

	var b strings.Builder
	if leftPad > 0 {
		b.WriteString(selectionBgStyle.Render(strings.Repeat(" ", leftPad)))
	}
	b.WriteString(applySelectionBackground(content))
	if rightPad > 0 {
		b.WriteString(selectionBgStyle.Render(strings.Repeat(" ", rightPad)))
	}
	return b.String()
}

// selectionPrefix returns the raw ANSI sequence that turns the selection
// background on, or "" when the color profile emits no styling.
func selectionPrefix() string {
	rendered := selectionBgStyle.Render(" ")
	prefix, ok := strings.CutSuffix(rendered, " \x1b[0m")
	if !ok {
		return ""
	}
	return prefix
}

// applySelectionBackground paints the selection background under content
// that may already carry foreground styling. Full SGR resets inside the
// content would clear the background, so every reset is followed by a
// background restore.
func applySelectionBackground(content string) string {
	if !strings.Contains(content, "\x1b[") {
		return selectionBgStyle.Render(content)
	}

	prefix := selectionPrefix()
	restored := strings.ReplaceAll(content, "\x1b[0m", "\x1b[0m"+prefix)
	return prefix + restored + "\x1b[0m"
}

// safeRender invokes the column's Render callback with panic recovery,
// so a bad type assertion in one cell cannot take down the whole view.
func safeRender(row any, col ColumnConfig, width int, selected bool) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = styles.TruncateString(fmt.Sprintf("[err: %v]", r), width)
		}
	}()

	if col.Render == nil {
		return ""
	}

	return col.Render(row, col.Key, width, selected)
}

// renderEmptyState centers msg in the given area.
func renderEmptyState(msg string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if msg == "" {
		msg = "No data"
	}

	styled := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(msg)
	if lipgloss.Width(styled) > width {
		styled = styles.TruncateString(msg, width)
	}

	leftPad := max((width-lipgloss.Width(styled))/2, 0)
	topPad := max((height-1)/2, 0)

	lines := make([]string, height)
	lines[topPad] = strings.Repeat(" ", leftPad) + styled
	return strings.Join(lines, "\n")
}

// alignText pads text to width according to the alignment.
func alignText(text string, width int, align lipgloss.Position) string {
	left, right := alignPadding(lipgloss.Width(text), width, align)
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

// alignPadding splits the leftover space for the given alignment.
func alignPadding(contentWidth, width int, align lipgloss.Position) (left, right int) {
	padding := max(width-contentWidth, 0)
	switch align {
	case lipgloss.Right:
		return padding, 0
	case lipgloss.Center:
		return padding / 2, padding - padding/2
	default:
		return 0, padding
	}
}
