// Package overlay composites modal content on top of a background view
// without clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position anchors the overlay within the viewport.
type Position int

const (
	// Center anchors the overlay in the middle of the viewport.
	Center Position = iota
	// Top anchors the overlay at the top, centered horizontally.
	Top
	// Bottom anchors the overlay at the bottom, centered horizontally.
	Bottom
)

// Config controls where and how the overlay is placed.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position anchors the overlay (Center, Top, Bottom).
	Position Position
	// PadY keeps the overlay this many rows away from the top or bottom
	// edge. Ignored for Center.
	PadY int
}

// Place draws fg over bg at the configured position. Both strings may
// carry ANSI escape sequences; styling on either side of the overlay
// survives the splice.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := anchor(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceLine(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// spliceLine overwrites bgLine with fgLine starting at column x,
// keeping the background visible on both sides.
func spliceLine(bgLine, fgLine string, x int) string {
	left := ansi.Truncate(bgLine, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(fgLine)
	var right string
	if end < ansi.StringWidth(bgLine) {
		right = ansi.TruncateLeft(bgLine, end, "")
	}

	return left + fgLine + right
}

// anchor returns the top-left coordinates for an overlay of the given
// size, clamped so oversized content starts at the viewport origin.
func anchor(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
