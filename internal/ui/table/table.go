package table

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"apiscout/internal/ui/styles"
)

// Rows the wheel moves per scroll event.
const wheelStep = 3

// Model holds table rendering state. Build one with New; the zero value
// panics on render because it has no columns.
type Model struct {
	config  TableConfig
	rows    []any
	width   int
	height  int
	yOffset int
	rowArea int // lines available for rows, derived in SetSize
}

// New creates a table with the given configuration.
// Panics if the configuration is invalid (no columns or a missing
// Render callback).
func New(cfg TableConfig) Model {
	if err := ValidateConfig(cfg); err != nil {
		panic(err)
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = "No data"
	}
	return Model{config: cfg, rows: make([]any, 0)}
}

// SetRows replaces the row data and returns the updated model.
func (m Model) SetRows(rows []any) Model {
	m.rows = rows
	m.yOffset = m.clampYOffset(m.yOffset)
	return m
}

// SetConfig swaps the configuration without resetting scroll state.
// Use it for dynamic values like the Focused flag or the border hint.
func (m Model) SetConfig(cfg TableConfig) Model {
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = "No data"
	}
	m.config = cfg
	return m
}

// SetSize sets the available dimensions and returns the updated model.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	area := height
	if m.config.ShowBorder {
		area -= 2
	}
	if m.config.ShowHeader {
		area--
	}
	m.rowArea = max(area, 0)
	m.yOffset = m.clampYOffset(m.yOffset)
	return m
}

// SetYOffset scrolls to the given row offset. No-op unless Scrollable.
func (m Model) SetYOffset(offset int) Model {
	if m.config.Scrollable {
		m.yOffset = m.clampYOffset(offset)
	}
	return m
}

// YOffset returns the current scroll offset.
func (m Model) YOffset() int {
	return m.yOffset
}

func (m Model) clampYOffset(offset int) int {
	maxOffset := max(len(m.rows)-m.rowArea, 0)
	return min(max(offset, 0), maxOffset)
}

// RowCount returns the number of rows in the table.
func (m Model) RowCount() int {
	return len(m.rows)
}

// Update handles mouse wheel scrolling. No-op unless Scrollable.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.config.Scrollable {
		return m, nil
	}

	if mouse, ok := msg.(tea.MouseMsg); ok {
		switch mouse.Button {
		case tea.MouseButtonWheelUp:
			m.yOffset = m.clampYOffset(m.yOffset - wheelStep)
		case tea.MouseButtonWheelDown:
			m.yOffset = m.clampYOffset(m.yOffset + wheelStep)
		}
	}

	return m, nil
}

// EnsureVisible scrolls the minimal amount to bring the row into view.
// No-op unless Scrollable.
func (m Model) EnsureVisible(rowIndex int) Model {
	if !m.config.Scrollable || rowIndex < 0 || rowIndex >= len(m.rows) {
		return m
	}

	if rowIndex < m.yOffset {
		m.yOffset = m.clampYOffset(rowIndex)
	} else if rowIndex >= m.yOffset+m.rowArea {
		m.yOffset = m.clampYOffset(rowIndex - m.rowArea + 1)
	}

	return m
}

// View renders the table without a highlighted row.
func (m Model) View() string {
	return m.render(-1)
}

// ViewWithSelection renders the table with the given row highlighted.
// An out-of-range index renders without a highlight.
func (m Model) ViewWithSelection(selectedIndex int) string {
	return m.render(selectedIndex)
}

func (m Model) render(selectedIndex int) string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	innerWidth := m.width
	innerHeight := m.height
	if m.config.ShowBorder {
		innerWidth -= 2
		innerHeight -= 2
	}
	if innerWidth <= 0 || innerHeight <= 0 {
		return ""
	}

	visible := filterVisibleColumns(m.config.Columns, m.width)
	widths := calculateColumnWidths(visible, innerWidth)

	var content string
	if len(m.rows) == 0 {
		content = renderEmptyState(m.config.EmptyMessage, innerWidth, innerHeight)
	} else {
		content = m.renderRows(visible, widths, innerWidth, innerHeight, selectedIndex)
	}

	if m.config.ShowBorder {
		return styles.RenderWithTitleBorder(content, m.config.Title, m.config.Hint,
			m.width, m.height, m.config.Focused, m.config.TitleColor, m.config.FocusedBorderColor)
	}

	return content
}

// renderRows renders the header plus the window of rows given by the
// scroll offset, padded to fill innerHeight.
func (m Model) renderRows(cols []ColumnConfig, widths []int, innerWidth, innerHeight, selectedIndex int) string {
	var lines []string

	rowArea := innerHeight
	if m.config.ShowHeader {
		header := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(renderHeader(cols, widths))
		lines = append(lines, header)
		rowArea--
	}

	start := 0
	if m.config.Scrollable {
		start = m.yOffset
	}
	end := min(start+rowArea, len(m.rows))

	for i := start; i < end; i++ {
		line := renderRow(m.rows[i], cols, widths, i == selectedIndex, innerWidth)
		if m.config.RowZoneID != nil {
			if id := m.config.RowZoneID(i, m.rows[i]); id != "" {
				line = zone.Mark(id, line)
			}
		}
		lines = append(lines, line)
	}

	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
