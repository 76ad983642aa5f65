// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder renders content with a title embedded in the top
// border and an optional hint embedded in the bottom border, lazygit style:
//
//	╭─ Title ─────╮
//	│ content     │
//	╰──── hint ──╯
//
// titleColor is used for the title text; focusedBorderColor is used for the
// border when focused, BorderDefaultColor otherwise.
func RenderWithTitleBorder(content, title, hint string, width, height int, focused bool, titleColor, focusedBorderColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused && focusedBorderColor != nil {
		borderColor = focusedBorderColor
	}
	if titleColor == nil {
		titleColor = BorderDefaultColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := max(width-2, 1)

	topBorder := buildTitleBorder(borderTopLeft, borderTopRight, title, innerWidth, borderStyle, titleStyle, false)
	bottomBorder := buildTitleBorder(borderBottomLeft, borderBottomRight, hint, innerWidth, borderStyle, titleStyle, true)

	contentHeight := max(height-2, 1)

	// lipgloss constrains content width and handles wrapping
	contentStyle := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight)
	constrainedContent := contentStyle.Render(content)

	contentLines := strings.Split(constrainedContent, "\n")
	paddedLines := make([]string, contentHeight)

	for i := range contentHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}

		// Pad line to innerWidth so the right border aligns
		lineWidth := lipgloss.Width(line)
		if lineWidth < innerWidth {
			line = line + strings.Repeat(" ", innerWidth-lineWidth)
		}

		paddedLines[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	result.WriteString(strings.Join(paddedLines, "\n"))
	result.WriteString("\n")
	result.WriteString(bottomBorder)

	return result.String()
}

// buildTitleBorder creates a border line with an embedded label.
// Labels sit left on the top border and right on the bottom border.
func buildTitleBorder(left, right, label string, innerWidth int, borderStyle, titleStyle lipgloss.Style, alignRight bool) string {
	if innerWidth < 1 {
		return borderStyle.Render(left + right)
	}

	plain := borderStyle.Render(left + strings.Repeat(borderHorizontal, innerWidth) + right)
	if label == "" {
		return plain
	}

	// Need at least "─ " before and " ─" after the label
	if innerWidth < 4 {
		return plain
	}

	display := label
	if lipgloss.Width(display) > innerWidth-4 {
		display = TruncateString(display, innerWidth-4)
	}

	dashes := max(innerWidth-3-lipgloss.Width(display), 0)

	if alignRight {
		return borderStyle.Render(left+strings.Repeat(borderHorizontal, dashes)+" ") +
			titleStyle.Render(display) +
			borderStyle.Render(" "+borderHorizontal+right)
	}
	return borderStyle.Render(left+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, dashes)+right)
}
