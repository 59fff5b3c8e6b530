package ui

import (
	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/dashboard"
)

// Screen layout: a one-line header, the body (list pane, divider, detail
// pane) and the footer (action message plus key help).
const (
	headerHeight = 1
	dividerWidth = 1
	// dividerGrab is how many cells either side of the divider start a drag.
	dividerGrab  = 1
	// minPaneWidth is the narrowest either pane may be dragged to.
	minPaneWidth = 20
)

// clampSplit keeps both panes at least minPaneWidth wide. Terminals too
// narrow for that split evenly.
func clampSplit(split, width int) int {
	lo, hi := minPaneWidth, width-dividerWidth-minPaneWidth
	if hi < lo {
		return max(0, (width-dividerWidth)/2)
	}
	return min(max(split, lo), hi)
}

func defaultSplit(width int) int {
	return clampSplit(width*2/5, width)
}

func (m *Model) footerHeight() int {
	if m.showHelp {
		return 1 + lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return 2
}

// bodyHeight is the number of rows of both panes.
func (m *Model) bodyHeight() int {
	return max(1, m.height-headerHeight-m.footerHeight())
}

func (m *Model) detailWidth() int {
	return max(0, m.width-m.split-dividerWidth)
}

// ensureVisible scrolls the list so the selected issue's row is shown.
func (m *Model) ensureVisible() {
	row, ok := dashboard.RowIndexForFlatIndex(m.state.Groups, m.state.Selected)
	if !ok {
		return
	}
	scroll := dashboard.EnsureVisible(row, m.state.ListScroll, m.bodyHeight())
	maxScroll := max(0, dashboard.TotalRows(m.state.Groups)-m.bodyHeight())
	scroll = min(scroll, maxScroll)
	if scroll != m.state.ListScroll {
		m.dispatch(dashboard.ScrollList{Offset: scroll})
	}
}
