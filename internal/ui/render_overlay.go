package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/ui/textutil"
)

const overlayWidth = 64

func keyHint(k, desc string) string {
	return Styles.Key.Render(k) + " " + Styles.Muted.Render(desc)
}

func hints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// renderOverlay renders the open overlay's box, or "" when none is open.
func (m *Model) renderOverlay() string {
	width := min(overlayWidth, max(20, m.width-4))
	inner := width - 6 // border and padding
	var body string
	box := BoxNormal
	switch m.state.Overlay {
	case dashboard.OverlayModeSelect:
		body = m.modeSelectView(inner)
	case dashboard.OverlayConfirmDelete:
		body = m.confirmDeleteView(inner)
		box = BoxWarning
	case dashboard.OverlayCommit:
		body = m.commitView(inner)
		if m.state.Commit.Phase == dashboard.CommitPhaseError {
			box = BoxWarning
		}
	case dashboard.OverlayPRCreate:
		body = m.prCreateView(inner)
		if m.state.PRCreate.Phase == dashboard.PRError {
			box = BoxWarning
		}
	default:
		return ""
	}
	return box.Width(width - 2).Render(body)
}

func (m *Model) modeSelectView(width int) string {
	ms := m.state.ModeSelect
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Start work on "+ms.TicketID) + "\n\n")
	if ms.Phase == dashboard.ModeConfirmInit {
		b.WriteString(wrapText("Run the init script in the new worktree?", width) + "\n")
		b.WriteString(Styles.Muted.Render(textutil.Truncate(m.deps.InitScript, width)) + "\n\n")
		b.WriteString(hints("y", "run", "n", "skip", "esc", "cancel"))
		return b.String()
	}
	for i, mode := range agent.Modes {
		line := fmt.Sprintf("%d. %s", i+1, mode.Label())
		if i == ms.Cursor {
			b.WriteString(Styles.Selected.Render("› "+line) + "\n")
		} else {
			b.WriteString(Styles.Text.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + hints("↑/↓", "move", "enter", "select", "esc", "cancel"))
	return b.String()
}

func (m *Model) confirmDeleteView(width int) string {
	cd := m.state.ConfirmDelete
	var b strings.Builder
	b.WriteString(Styles.Error.Bold(true).Render("Delete worktree for "+cd.TicketID+"?") + "\n\n")
	b.WriteString(Styles.Muted.Render(textutil.Truncate(cd.Path, width)) + "\n")
	b.WriteString(Styles.Muted.Render("Branch "+textutil.Truncate(cd.Branch, width-7)) + "\n")
	if cd.Dirty {
		b.WriteString("\n" + Styles.Warning.Render(wrapText("The worktree has uncommitted changes. They will be discarded.", width)) + "\n")
	}
	b.WriteString("\n" + hints("y", "delete", "esc", "cancel"))
	return b.String()
}

func (m *Model) commitView(width int) string {
	c := m.state.Commit
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Commit and push "+c.TicketID) + "\n\n")
	switch c.Phase {
	case dashboard.CommitConfirmStage:
		b.WriteString("Stage all changes?\n")
		b.WriteString(statusPreview(c.Status, width) + "\n")
		if m.staging {
			b.WriteString(m.spin.View() + " Staging…")
		} else {
			b.WriteString(hints("y", "stage all", "esc", "cancel"))
		}
	case dashboard.CommitAwaitingMessage:
		b.WriteString("Staged:\n" + statusPreview(c.Status, width) + "\n")
		m.input.Width = max(10, width-2)
		b.WriteString(m.input.View() + "\n")
		if c.Err != "" {
			b.WriteString(Styles.Error.Render(c.Err) + "\n")
		}
		b.WriteString("\n" + hints("enter", "commit", "esc", "cancel"))
	case dashboard.CommitCommitting:
		b.WriteString(m.spin.View() + " Committing…")
	case dashboard.CommitPushing:
		b.WriteString(m.spin.View() + " Pushing " + c.Branch + "…")
	case dashboard.CommitPhaseDone:
		b.WriteString(Styles.Success.Render("✓ Committed and pushed") + "\n")
		b.WriteString(Styles.Muted.Render(textutil.Truncate(c.Message, width)))
	case dashboard.CommitPhaseError:
		b.WriteString(Styles.Error.Render(wrapText(c.Err, width)) + "\n\n")
		b.WriteString(hints("esc", "close"))
	}
	return b.String()
}

func statusPreview(status string, width int) string {
	lines := strings.Split(strings.TrimRight(status, "\n"), "\n")
	if len(lines) > maxStatusLines {
		more := len(lines) - maxStatusLines
		lines = append(lines[:maxStatusLines], fmt.Sprintf("… %d more", more))
	}
	for i, l := range lines {
		lines[i] = Styles.Muted.Render("  " + textutil.Truncate(l, width-2))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) prCreateView(width int) string {
	p := m.state.PRCreate
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Create pull request for "+p.TicketID) + "\n\n")
	switch p.Phase {
	case dashboard.PRChooseMode:
		b.WriteString(Styles.Muted.Render("Branch "+textutil.Truncate(p.Branch, width-7)) + "\n\n")
		b.WriteString(hints("f", "fill with agent", "w", "open web form", "esc", "cancel"))
	case dashboard.PRPushing:
		b.WriteString(m.spin.View() + " Pushing " + p.Branch + "…")
	case dashboard.PRCreating:
		b.WriteString(m.spin.View() + " Creating pull request…")
	case dashboard.PRDone:
		if p.URL == "" {
			b.WriteString(Styles.Success.Render("✓ Opened the creation form in your browser") + "\n\n")
			b.WriteString(hints("esc", "close"))
			break
		}
		b.WriteString(Styles.Success.Render("✓ Pull request created") + "\n")
		b.WriteString(textutil.Truncate(p.URL, width) + "\n\n")
		b.WriteString(hints("enter", "open", "esc", "close"))
	case dashboard.PRError:
		b.WriteString(Styles.Error.Render(wrapText(p.Err, width)) + "\n\n")
		b.WriteString(hints("w", "open web form", "esc", "close"))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}
