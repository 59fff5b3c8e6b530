package dashboard

// Row layout of the list pane: row 0 holds the column labels, then each
// project contributes a header row followed by, for each status group, a
// header row and one row per issue.

// LabelRow is the column-label row.
const LabelRow = 0

// RowIndexForFlatIndex returns the list row showing the issue at flat.
func RowIndexForFlatIndex(groups []ProjectGroup, flat int) (int, bool) {
	if flat < 0 {
		return 0, false
	}
	row := LabelRow + 1
	idx := 0
	for _, g := range groups {
		row++ // project header
		for _, s := range g.Statuses {
			row++ // status header
			if flat < idx+len(s.Issues) {
				return row + (flat - idx), true
			}
			idx += len(s.Issues)
			row += len(s.Issues)
		}
	}
	return 0, false
}

// FlatIndexForListRow returns the flat index of the issue on row. Header
// rows and the label row give false.
func FlatIndexForListRow(groups []ProjectGroup, row int) (int, bool) {
	if row <= LabelRow {
		return 0, false
	}
	r := LabelRow + 1
	idx := 0
	for _, g := range groups {
		if row == r {
			return 0, false
		}
		r++
		for _, s := range g.Statuses {
			if row == r {
				return 0, false
			}
			r++
			if row < r+len(s.Issues) {
				return idx + (row - r), true
			}
			idx += len(s.Issues)
			r += len(s.Issues)
		}
	}
	return 0, false
}

// TotalRows is the number of list rows, including the label row.
func TotalRows(groups []ProjectGroup) int {
	rows := LabelRow + 1
	for _, g := range groups {
		rows++
		for _, s := range g.Statuses {
			rows += 1 + len(s.Issues)
		}
	}
	return rows
}

// EnsureVisible returns the scroll offset that keeps row inside a window of
// height rows starting at scroll, with one line of margin on the side it
// scrolled towards. The offset is unchanged when row is already visible.
func EnsureVisible(row, scroll, height int) int {
	if height <= 0 {
		return scroll
	}
	margin := 1
	if height < 3 {
		margin = 0
	}
	switch {
	case row < scroll:
		scroll = row - margin
	case row >= scroll+height:
		scroll = row - height + 1 + margin
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}
