package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/ui/textutil"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.state.Error != "" {
		return m.errorView()
	}
	if m.state.Loading {
		msg := m.spin.View() + " Loading assigned tickets…"
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	height := m.bodyHeight()
	list := m.renderList(m.split, height)
	detail := m.renderDetail(m.detailWidth(), height)
	divider := Styles.Divider
	if m.dragging {
		divider = Styles.DividerDrag
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.headerView())
	for i := range height {
		lines = append(lines, list[i]+divider.Render("│")+detail[i])
	}
	lines = append(lines, m.footerView()...)
	screen := strings.Join(lines, "\n")

	if box := m.renderOverlay(); box != "" {
		screen = placeCentered(screen, box, m.width, m.height)
	}
	return screen
}

func (m *Model) headerView() string {
	title := Styles.Title.Render("ticketdash")
	right := ""
	if !m.state.LastRefresh.IsZero() {
		right = Styles.Muted.Render("updated " + m.state.LastRefresh.Format("15:04:05"))
	}
	if m.state.Refreshing {
		right = m.spin.View() + " " + Styles.Muted.Render("refreshing")
	}
	count := Styles.Muted.Render(fmt.Sprintf(" %d tickets", len(m.state.Flat)))
	gap := m.width - textutil.Width(title) - textutil.Width(count) - textutil.Width(right)
	if gap < 1 {
		return textutil.Fit(title+count, m.width)
	}
	return title + count + strings.Repeat(" ", gap) + right
}

func (m *Model) footerView() []string {
	msg := ""
	if m.state.ActionMessage != "" {
		style := Styles.Success
		if m.state.ActionIsError {
			style = Styles.Error
		}
		msg = style.Render(m.state.ActionMessage)
	}
	lines := []string{textutil.Fit(msg, m.width)}
	var help string
	if m.showHelp {
		help = m.help.FullHelpView(m.keys.FullHelp())
	} else {
		help = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	for _, l := range strings.Split(help, "\n") {
		lines = append(lines, textutil.Fit(l, m.width))
	}
	return lines
}

// errorView is the full-screen load failure.
func (m *Model) errorView() string {
	width := min(72, max(20, m.width-4))
	body := Styles.Error.Bold(true).Render("Could not load the dashboard") + "\n\n" +
		wrapText(m.state.Error, width-6) + "\n\n" +
		hints("r", "retry", "q", "quit")
	if m.state.Refreshing {
		body += "  " + m.spin.View()
	}
	box := BoxWarning.Width(width - 2).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
