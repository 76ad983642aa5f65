// Package table renders column-configured tables for the API inventory.
//
// The table is a pure render component: callers own selection and scroll
// intent and pass them in at render time. Columns declare a Render
// callback plus sizing hints; the component handles responsive column
// hiding, width distribution, truncation, selection highlighting, and
// the bordered frame.
//
// Quick start:
//
//	cfg := table.TableConfig{
//	    Columns: []table.ColumnConfig{
//	        {Key: "pid", Header: "PID", Width: 7, Render: func(row any, _ string, w int, _ bool) string {
//	            return fmt.Sprintf("%*d", w, row.(*MyRow).PID)
//	        }},
//	        {Key: "name", Header: "Name", MinWidth: 10, Render: func(row any, _ string, w int, _ bool) string {
//	            return styles.TruncateString(row.(*MyRow).Name, w)
//	        }},
//	    },
//	    ShowHeader: true,
//	    ShowBorder: true,
//	}
//	tbl := table.New(cfg).SetRows(rows).SetSize(80, 20)
//	view := tbl.ViewWithSelection(selectedIndex)
package table

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// RenderFunc produces the content for one cell. width is the space the
// cell must fit into; selected reports whether the row is highlighted so
// callbacks can avoid foreground colors that clash with the selection
// background.
type RenderFunc func(row any, key string, width int, selected bool) string

// ColumnConfig defines a single table column.
//
// A nonzero Width pins the column. Width zero makes it a flex column
// that shares the space left over after fixed columns and separators,
// bounded below by MinWidth and above by MaxWidth.
type ColumnConfig struct {
	Key      string // column identifier, passed back to Render
	Header   string // header row text
	Width    int    // fixed width, 0 = flex
	MinWidth int    // lower bound for flex columns
	MaxWidth int    // upper bound for flex columns, 0 = unbounded
	Align    lipgloss.Position

	// HideBelow drops the column when the total table width is narrower
	// than this many cells. Zero keeps the column at every width.
	HideBelow int

	// Render is required for every column.
	Render RenderFunc
}

// TableConfig defines the table's columns, chrome, and styling.
type TableConfig struct {
	Columns      []ColumnConfig // required, at least one
	ShowHeader   bool           // render the header row
	ShowBorder   bool           // wrap in a bordered frame
	Title        string         // label on the top border
	Hint         string         // label on the bottom border, e.g. "3/12"
	EmptyMessage string         // shown when there are no rows, default "No data"

	// Scrollable keeps the header sticky and windows the rows by the
	// scroll offset. Mouse wheel events move the window via Update.
	Scrollable bool

	// RowZoneID returns a bubblezone ID for a row. When set, each row is
	// wrapped with zone.Mark for mouse hit detection.
	RowZoneID func(index int, row any) string

	TitleColor         lipgloss.TerminalColor // top border label color
	Focused            bool                   // affects border color
	FocusedBorderColor lipgloss.TerminalColor // border color when focused
}

// ValidateConfig reports whether the configuration can be rendered.
func ValidateConfig(cfg TableConfig) error {
	if len(cfg.Columns) == 0 {
		return errors.New("table config: at least one column is required")
	}

	for i, col := range cfg.Columns {
		if col.Render == nil {
			if col.Key != "" {
				return fmt.Errorf("table config: column %q has nil Render callback", col.Key)
			}
			return fmt.Errorf("table config: column %d has nil Render callback", i)
		}
	}

	return nil
}
