package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ticketdash/internal/dashboard"
	"ticketdash/internal/mouse"
)

// handleMouse routes a mouse report. Coordinates are 1-based.
func (m *Model) handleMouse(ev mouse.Event) tea.Cmd {
	x, y := ev.X-1, ev.Y-1

	switch ev.Kind {
	case mouse.Release:
		m.dragging = false
		return nil
	case mouse.Drag:
		if m.dragging {
			m.split = clampSplit(x, m.width)
		}
		return nil
	}

	if m.state.Overlay != dashboard.OverlayNone || m.state.Error != "" {
		return nil
	}
	if y < headerHeight || y >= headerHeight+m.bodyHeight() {
		return nil
	}
	inList := x < m.split
	// The divider is grabbable one cell either side of its column.
	onDivider := x >= m.split-dividerGrab && x <= m.split+dividerGrab

	switch ev.Kind {
	case mouse.Press:
		if ev.Button != mouse.ButtonLeft {
			return nil
		}
		switch {
		case onDivider:
			m.dragging = true
		case inList:
			row := m.state.ListScroll + y - headerHeight
			if idx, ok := dashboard.FlatIndexForListRow(m.state.Groups, row); ok {
				m.selectIndex(idx)
			}
		}
	case mouse.WheelUp:
		if inList {
			m.selectIndex(m.state.Selected - 1)
		} else if x > m.split {
			m.scrollDetail(-detailScrollStep)
		}
	case mouse.WheelDown:
		if inList {
			m.selectIndex(m.state.Selected + 1)
		} else if x > m.split {
			m.scrollDetail(detailScrollStep)
		}
	}
	return nil
}
