package app

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"apiscout/internal/discovery"
	"apiscout/internal/ui/styles"
	"apiscout/internal/ui/table"
)

// detectedHeading sits above the table in the TUI and in the list
// subcommand output.
const detectedHeading = "Detected APIs:"

// tableRow pairs an entry with its 1-based registry index.
type tableRow struct {
	index int
	entry discovery.Entry
}

// tableConfig returns the shared column layout. The TUI adds scrolling
// and click zones on top via appTableConfig.
func tableConfig() table.TableConfig {
	return table.TableConfig{
		Columns: []table.ColumnConfig{
			{Key: "index", Header: "#", Width: 3, Align: lipgloss.Right, Render: renderIndexCell},
			{Key: "kind", Header: "Type", Width: 8, HideBelow: 46, Render: renderKindCell},
			{Key: "target", Header: "Port/URL", MinWidth: 14, MaxWidth: 44, Render: renderTargetCell},
			{Key: "pid", Header: "PID", Width: 7, Align: lipgloss.Right, HideBelow: 38, Render: renderPIDCell},
			{Key: "name", Header: "Name", MinWidth: 10, MaxWidth: 32, Render: renderNameCell},
			{Key: "status", Header: "Status", Width: 17, HideBelow: 66, Render: renderStatusCell},
		},
		ShowHeader:   true,
		ShowBorder:   true,
		EmptyMessage: "No APIs found!",
	}
}

func appTableConfig(hint string) table.TableConfig {
	cfg := tableConfig()
	cfg.Hint = hint
	cfg.Scrollable = true
	cfg.RowZoneID = func(index int, _ any) string { return rowZoneID(index) }
	return cfg
}

// registryRows converts registry entries into table rows.
func registryRows(reg *discovery.Registry) []any {
	if reg == nil {
		return nil
	}
	entries := reg.Entries()
	rows := make([]any, len(entries))
	for i, e := range entries {
		rows[i] = tableRow{index: i + 1, entry: e}
	}
	return rows
}

// RenderSnapshot renders the heading and the full table sized to fit
// every row. The list subcommand prints this once per invocation.
func RenderSnapshot(reg *discovery.Registry, width int) string {
	rows := registryRows(reg)
	height := len(rows) + 3 // header row + borders
	if len(rows) == 0 {
		height = 3
	}

	t := table.New(tableConfig()).SetRows(rows).SetSize(width, height)
	return headingStyle.Render(detectedHeading) + "\n" + t.View()
}

// kindCounts tallies entries per kind for the status bar.
func kindCounts(reg *discovery.Registry) (locals, browsers int) {
	if reg == nil {
		return 0, 0
	}
	for _, e := range reg.Entries() {
		if e.Kind() == discovery.KindLocal {
			locals++
		} else {
			browsers++
		}
	}
	return locals, browsers
}

func kindColor(k discovery.Kind) lipgloss.TerminalColor {
	if k == discovery.KindLocal {
		return styles.KindLocalColor
	}
	return styles.KindBrowserColor
}

func renderIndexCell(row any, _ string, _ int, _ bool) string {
	return strconv.Itoa(row.(tableRow).index)
}

func renderKindCell(row any, _ string, width int, selected bool) string {
	r := row.(tableRow)
	label := styles.TruncateString(r.entry.Kind().String(), width)
	if selected {
		return label
	}
	return lipgloss.NewStyle().Foreground(kindColor(r.entry.Kind())).Render(label)
}

func renderTargetCell(row any, _ string, width int, _ bool) string {
	return styles.TruncateString(row.(tableRow).entry.Target(), width)
}

func renderPIDCell(row any, _ string, _ int, _ bool) string {
	return discovery.PIDLabel(row.(tableRow).entry)
}

func renderNameCell(row any, _ string, width int, _ bool) string {
	return styles.TruncateString(row.(tableRow).entry.Name(), width)
}

func renderStatusCell(row any, _ string, width int, selected bool) string {
	r := row.(tableRow)
	label := styles.TruncateString(r.entry.Status(), width)
	if selected {
		return label
	}
	color := styles.KindBrowserColor
	if r.entry.Kind() == discovery.KindLocal {
		color = styles.StatusSuccessColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(label)
}
