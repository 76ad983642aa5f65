package table

// Flex columns never shrink below this width, even without a MinWidth.
const minFlexWidth = 3

// filterVisibleColumns drops columns whose HideBelow threshold exceeds
// the current table width.
func filterVisibleColumns(cols []ColumnConfig, tableWidth int) []ColumnConfig {
	visible := make([]ColumnConfig, 0, len(cols))
	for _, col := range cols {
		if col.HideBelow > 0 && tableWidth < col.HideBelow {
			continue
		}
		visible = append(visible, col)
	}
	return visible
}

// calculateColumnWidths distributes innerWidth across the columns.
// Fixed columns keep their configured width. Flex columns start at
// max(MinWidth, minFlexWidth) and grow round-robin until the space is
// used or every flex column hits its MaxWidth. When fixed columns and
// flex floors already overshoot, flex columns are squeezed below their
// MinWidth, down to minFlexWidth, rather than overflow the frame.
// A single-space separator sits between adjacent columns.
func calculateColumnWidths(cols []ColumnConfig, innerWidth int) []int {
	if len(cols) == 0 {
		return nil
	}

	widths := make([]int, len(cols))
	available := innerWidth - (len(cols) - 1)

	var flex []int
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			available -= col.Width
		} else {
			flex = append(flex, i)
		}
	}

	if len(flex) == 0 {
		return widths
	}

	for _, i := range flex {
		widths[i] = max(cols[i].MinWidth, minFlexWidth)
		available -= widths[i]
	}

	for available > 0 {
		grew := false
		for _, i := range flex {
			if available == 0 {
				break
			}
			if cols[i].MaxWidth > 0 && widths[i] >= cols[i].MaxWidth {
				continue
			}
			widths[i]++
			available--
			grew = true
		}
		if !grew {
			break
		}
	}

	for available < 0 {
		shrunk := false
		for _, i := range flex {
			if available == 0 {
				break
			}
			if widths[i] > minFlexWidth {
				widths[i]--
				available++
				shrunk = true
			}
		}
		if !shrunk {
			break
		}
	}

	return widths
}
