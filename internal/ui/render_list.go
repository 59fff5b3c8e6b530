package ui

import (
	"fmt"
	"strings"

	"ticketdash/internal/dashboard"
	"ticketdash/internal/pr"
	"ticketdash/internal/ui/textutil"
)

// Column widths of an issue row.
const (
	markerWidth    = 2
	idWidth        = 10
	indicatorWidth = 9
)

// renderList renders the visible window of list rows.
func (m *Model) renderList(width, height int) []string {
	rows := m.listRows(width)
	maxScroll := max(0, len(rows)-height)
	start := min(m.state.ListScroll, maxScroll)
	end := min(len(rows), start+height)

	out := make([]string, 0, height)
	out = append(out, rows[start:end]...)
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return out
}

// listRows renders every row, in the order dashboard.RowIndexForFlatIndex
// counts them.
func (m *Model) listRows(width int) []string {
	titleWidth, showIndicators := rowColumns(width)

	label := strings.Repeat(" ", markerWidth) + textutil.PadRight("ID", idWidth) + " " + textutil.PadRight("TITLE", titleWidth)
	if showIndicators {
		label += " " + textutil.PadRight("WT PR", indicatorWidth)
	}
	rows := []string{textutil.Fit(Styles.Label.Render(textutil.Truncate(label, width)), width)}

	flat := 0
	for _, g := range m.state.Groups {
		rows = append(rows, textutil.Fit(Styles.Project.Render(textutil.Truncate(g.Name, width)), width))
		for _, s := range g.Statuses {
			head := fmt.Sprintf("  %s (%d)", s.Name, len(s.Issues))
			rows = append(rows, textutil.Fit(Styles.Status.Render(textutil.Truncate(head, width)), width))
			for _, is := range s.Issues {
				rows = append(rows, m.issueRow(is, flat == m.state.Selected, width, titleWidth, showIndicators))
				flat++
			}
		}
	}
	return rows
}

// rowColumns sizes the title column; indicators are dropped when the pane
// is too narrow for them.
func rowColumns(width int) (titleWidth int, indicators bool) {
	titleWidth = width - markerWidth - idWidth - 1 - indicatorWidth - 1
	if titleWidth >= 8 {
		return titleWidth, true
	}
	return max(0, width-markerWidth-idWidth-1), false
}

func (m *Model) issueRow(is dashboard.Issue, selected bool, width, titleWidth int, indicators bool) string {
	marker := strings.Repeat(" ", markerWidth)
	switch {
	case m.busy(is.ID()):
		marker = textutil.Fit(m.spin.View(), markerWidth)
	case selected:
		marker = "› "
	}
	line := textutil.PadRight(is.ID(), idWidth) + " " + textutil.PadRight(is.Ticket.Title, titleWidth)
	if indicators {
		line += " " + textutil.PadRight(indicatorText(is), indicatorWidth)
	}

	style := Styles.Text
	switch {
	case selected:
		style = Styles.Selected
	case is.Orphaned():
		style = Styles.Muted
	}
	return textutil.Fit(marker+style.Render(line), width)
}

// indicatorText summarizes worktree, session and PR state: "●▶ #12✓".
func indicatorText(is dashboard.Issue) string {
	var b strings.Builder
	switch {
	case is.Worktree == nil:
		b.WriteString(" ")
	case is.Worktree.Dirty:
		b.WriteString("●")
	default:
		b.WriteString("○")
	}
	if is.Worktree != nil && is.Worktree.SessionLive {
		b.WriteString("▶")
	} else {
		b.WriteString(" ")
	}
	if is.PR != nil {
		fmt.Fprintf(&b, " #%d%s", is.PR.Number, checkGlyph(is.Checks))
	}
	return b.String()
}

// checkGlyph is ✗ when any check failed, … while any is pending and ✓
// when all passed. No checks give "".
func checkGlyph(checks []pr.Check) string {
	if len(checks) == 0 {
		return ""
	}
	pending := false
	for _, c := range checks {
		switch c.Bucket {
		case pr.BucketFail, pr.BucketCancel:
			return "✗"
		case pr.BucketPending:
			pending = true
		}
	}
	if pending {
		return "…"
	}
	return "✓"
}
