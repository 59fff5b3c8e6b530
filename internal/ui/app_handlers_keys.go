package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/pr"
	"ticketdash/internal/ticket"
)

// handleKey routes a key press. An open overlay takes every key; then
// come quit, movement and the per-issue actions.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.state.Overlay != dashboard.OverlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		m.deps.PRs.ClearCache()
		return m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.ensureVisible()
		return nil
	}
	if m.state.Error != "" {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selectIndex(m.state.Selected - 1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.selectIndex(m.state.Selected + 1)
		return nil
	case key.Matches(msg, m.keys.DetailUp):
		m.scrollDetail(-detailScrollStep)
		return nil
	case key.Matches(msg, m.keys.DetailDown):
		m.scrollDetail(detailScrollStep)
		return nil
	}

	is, ok := m.state.SelectedIssue()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Work):
		return m.work(is)
	case key.Matches(msg, m.keys.Switch):
		return m.switchTo(is)
	case key.Matches(msg, m.keys.OpenTicket):
		if is.Ticket.URL == "" {
			return m.notify(is.ID()+" has no ticket link", true)
		}
		return actionCmd("Opened "+is.ID(), func() error { return m.deps.Opener.OpenURL(is.Ticket.URL) })
	case key.Matches(msg, m.keys.OpenPR):
		if is.PR == nil {
			return m.notify("No pull request for "+is.ID(), true)
		}
		return actionCmd(fmt.Sprintf("Opened PR #%d", is.PR.Number), func() error { return m.deps.Opener.OpenURL(is.PR.URL) })
	case key.Matches(msg, m.keys.CreatePR):
		return m.openPRCreate(is)
	case key.Matches(msg, m.keys.Review):
		if is.PR == nil {
			return m.notify("No pull request to review for "+is.ID(), true)
		}
		return m.promptAgent(is, agent.ReviewPrompt(is.Ticket, is.PR), "review")
	case key.Matches(msg, m.keys.Fix):
		if is.PR == nil {
			return m.notify("No pull request to fix for "+is.ID(), true)
		}
		return m.promptAgent(is, agent.FixPrompt(is.Ticket, is.PR, is.Checks, is.Reviews), "fix")
	case key.Matches(msg, m.keys.Editor):
		if is.Worktree == nil {
			return m.notify("No worktree for "+is.ID(), true)
		}
		path := is.Worktree.Path
		return actionCmd("Opened editor", func() error { return m.deps.Opener.OpenEditor(path) })
	case key.Matches(msg, m.keys.Workspace):
		if is.Worktree == nil {
			return m.notify("No worktree for "+is.ID(), true)
		}
		path := is.Worktree.Path
		return actionCmd("Opened workspace", func() error { return m.deps.Opener.OpenWorkspace(path, is.ID()) })
	case key.Matches(msg, m.keys.Commit):
		return m.openCommit(is)
	case key.Matches(msg, m.keys.Delete):
		return m.openDelete(is)
	case key.Matches(msg, m.keys.CopyBranch):
		branch := ticket.BranchName(is.Ticket, m.deps.BranchPrefix)
		if is.Worktree != nil {
			branch = is.Worktree.Branch
		}
		return actionCmd("Copied "+branch, func() error { return m.deps.Opener.Copy(branch) })
	}
	return nil
}

// work opens the mode menu, or hints at the running session.
func (m *Model) work(is dashboard.Issue) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	if is.Worktree != nil && is.Worktree.SessionLive {
		return m.notify("Session already running for "+is.ID()+", press enter to switch", false)
	}
	m.dispatch(dashboard.SetOverlay{
		Overlay:    dashboard.OverlayModeSelect,
		ModeSelect: dashboard.ModeSelect{TicketID: is.ID()},
	})
	return nil
}

// switchTo focuses the issue's window, resuming its session when the
// window is gone.
func (m *Model) switchTo(is dashboard.Issue) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	wt := is.Worktree
	if wt == nil {
		return m.notify("No worktree for "+is.ID()+", press w to start", true)
	}
	rec, _ := m.deps.Sessions.Get(wt.Branch)
	if wt.SessionLive && rec.WindowID != "" {
		window := rec.WindowID
		return actionCmd("Switched to "+is.ID(), func() error { return m.deps.Agent.Focus(window) })
	}
	target := launchTarget{ticket: is.Ticket, branch: wt.Branch, path: wt.Path, base: wt.BaseBranch, mode: agent.ModeShell}
	if wt.SessionID != "" {
		target.mode = agent.ModeImplement
		if agent.Mode(rec.Mode) == agent.ModePlan {
			target.mode = agent.ModePlan
		}
		target.resume = true
	}
	return launchCmd(m.ctx, m.deps, target, false)
}

// promptAgent hands prompt to the issue's agent: typed into the live
// window, or a resumed session otherwise.
func (m *Model) promptAgent(is dashboard.Issue, prompt, verb string) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	wt := is.Worktree
	if wt == nil {
		return m.notify("No worktree for "+is.ID()+", press w to start", true)
	}
	rec, _ := m.deps.Sessions.Get(wt.Branch)
	if wt.SessionLive && rec.WindowID != "" {
		window := rec.WindowID
		return actionCmd(fmt.Sprintf("Sent %s request to %s", verb, is.ID()), func() error {
			return m.deps.Agent.Send(window, prompt)
		})
	}
	return launchCmd(m.ctx, m.deps, launchTarget{
		ticket: is.Ticket,
		branch: wt.Branch,
		path:   wt.Path,
		base:   wt.BaseBranch,
		mode:   agent.ModeImplement,
		prompt: prompt,
		resume: true,
	}, false)
}

func (m *Model) openCommit(is dashboard.Issue) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	wt := is.Worktree
	if wt == nil {
		return m.notify("No worktree for "+is.ID(), true)
	}
	if !wt.Dirty {
		return m.notify("Nothing to commit in "+is.ID(), false)
	}
	m.dispatch(dashboard.CommitStart{TicketID: is.ID(), Branch: wt.Branch, Worktree: wt.Path, Status: wt.Status})
	return nil
}

func (m *Model) openPRCreate(is dashboard.Issue) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	if is.Worktree == nil {
		return m.notify("No worktree for "+is.ID(), true)
	}
	if is.PR != nil && is.PR.State == pr.StateOpen {
		return m.notify(fmt.Sprintf("PR #%d is already open, press p to view it", is.PR.Number), false)
	}
	m.dispatch(dashboard.PRCreateStart{TicketID: is.ID(), Branch: is.Worktree.Branch, Worktree: is.Worktree.Path})
	return nil
}

func (m *Model) openDelete(is dashboard.Issue) tea.Cmd {
	if m.busy(is.ID()) {
		return nil
	}
	wt := is.Worktree
	if wt == nil {
		return m.notify("No worktree to delete for "+is.ID(), true)
	}
	m.dispatch(dashboard.SetOverlay{
		Overlay: dashboard.OverlayConfirmDelete,
		ConfirmDelete: dashboard.ConfirmDelete{
			TicketID: is.ID(),
			Branch:   wt.Branch,
			Path:     wt.Path,
			Dirty:    wt.Dirty,
		},
	})
	return nil
}

func (m *Model) closeOverlay() {
	m.dispatch(dashboard.SetOverlay{Overlay: dashboard.OverlayNone})
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state.Overlay {
	case dashboard.OverlayModeSelect:
		return m.modeSelectKey(msg)
	case dashboard.OverlayConfirmDelete:
		return m.confirmDeleteKey(msg)
	case dashboard.OverlayCommit:
		return m.commitKey(msg)
	case dashboard.OverlayPRCreate:
		return m.prCreateKey(msg)
	}
	return nil
}

func (m *Model) modeSelectKey(msg tea.KeyMsg) tea.Cmd {
	ms := m.state.ModeSelect
	if key.Matches(msg, m.keys.Cancel) {
		m.closeOverlay()
		return nil
	}
	if ms.Phase == dashboard.ModeConfirmInit {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m.startWork(ms, true)
		case key.Matches(msg, m.keys.Deny):
			return m.startWork(ms, false)
		}
		return nil
	}

	n := len(agent.Modes)
	switch {
	case key.Matches(msg, m.keys.Up):
		ms.Cursor = (ms.Cursor + n - 1) % n
	case key.Matches(msg, m.keys.Down):
		ms.Cursor = (ms.Cursor + 1) % n
	case key.Matches(msg, m.keys.ModeShortcut):
		ms.Cursor = int(msg.Runes[0] - '1')
		return m.chooseMode(ms)
	case key.Matches(msg, m.keys.Submit):
		return m.chooseMode(ms)
	default:
		return nil
	}
	m.dispatch(dashboard.SetOverlay{Overlay: dashboard.OverlayModeSelect, ModeSelect: ms})
	return nil
}

// chooseMode acts on the highlighted mode: launch in an existing
// worktree, ask about the init script, or create the worktree.
func (m *Model) chooseMode(ms dashboard.ModeSelect) tea.Cmd {
	mode := agent.Modes[min(max(ms.Cursor, 0), len(agent.Modes)-1)]
	ms.Mode = string(mode)
	is, ok := m.state.IssueByID(ms.TicketID)
	if !ok {
		m.closeOverlay()
		return nil
	}
	if wt := is.Worktree; wt != nil {
		m.closeOverlay()
		target := launchTarget{ticket: is.Ticket, branch: wt.Branch, path: wt.Path, base: wt.BaseBranch, mode: mode}
		if wt.SessionID != "" {
			target.resume = true
		} else {
			target.prompt = agent.WorkPrompt(is.Ticket, mode)
		}
		return launchCmd(m.ctx, m.deps, target, false)
	}
	if m.deps.InitScript != "" {
		ms.Phase = dashboard.ModeConfirmInit
		m.dispatch(dashboard.SetOverlay{Overlay: dashboard.OverlayModeSelect, ModeSelect: ms})
		return nil
	}
	return m.startWork(ms, false)
}

func (m *Model) startWork(ms dashboard.ModeSelect, runInit bool) tea.Cmd {
	m.closeOverlay()
	is, ok := m.state.IssueByID(ms.TicketID)
	if !ok || m.busy(is.ID()) {
		return nil
	}
	return m.startCreate(is.Ticket, agent.Mode(ms.Mode), runInit)
}

func (m *Model) confirmDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.state.ConfirmDelete
		m.closeOverlay()
		if m.busy(target.TicketID) {
			return nil
		}
		m.dispatch(dashboard.DeleteStart{TicketID: target.TicketID})
		return deleteCmd(m.ctx, m.deps, target)
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Deny):
		m.closeOverlay()
	}
	return nil
}

func (m *Model) commitKey(msg tea.KeyMsg) tea.Cmd {
	c := m.state.Commit
	switch c.Phase {
	case dashboard.CommitConfirmStage:
		switch {
		case m.staging:
			return nil
		case key.Matches(msg, m.keys.Confirm):
			m.staging = true
			return stageCmd(m.ctx, m.deps.Worktrees, c.Worktree)
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Deny):
			m.closeCommit()
		}
	case dashboard.CommitAwaitingMessage:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closeCommit()
		case key.Matches(msg, m.keys.Submit):
			m.dispatch(dashboard.CommitMessage{Message: m.input.Value()})
			c = m.state.Commit
			if c.Phase != dashboard.CommitCommitting {
				return nil
			}
			m.input.Blur()
			return commitCmd(m.ctx, m.deps.Worktrees, c.Worktree, c.Message)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	case dashboard.CommitPhaseDone:
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Submit) {
			m.closeCommit()
			return m.refresh()
		}
	case dashboard.CommitPhaseError:
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Submit) {
			m.closeCommit()
		}
	}
	return nil
}

func (m *Model) prCreateKey(msg tea.KeyMsg) tea.Cmd {
	p := m.state.PRCreate
	switch p.Phase {
	case dashboard.PRChooseMode:
		switch {
		case key.Matches(msg, m.keys.FillPR):
			m.dispatch(dashboard.PRCreatePhase{Phase: dashboard.PRPushing})
			return prPushCmd(m.ctx, m.deps.Worktrees, p.Worktree, p.Branch, false)
		case key.Matches(msg, m.keys.WebPR):
			m.dispatch(dashboard.PRCreatePhase{Phase: dashboard.PRPushing})
			return prPushCmd(m.ctx, m.deps.Worktrees, p.Worktree, p.Branch, true)
		case key.Matches(msg, m.keys.Cancel):
			m.dispatch(dashboard.PRCreateCancel{})
		}
	case dashboard.PRDone:
		switch {
		case key.Matches(msg, m.keys.Submit) && p.URL != "":
			url := p.URL
			m.dispatch(dashboard.PRCreateCancel{})
			return actionCmd("Opened "+url, func() error { return m.deps.Opener.OpenURL(url) })
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Submit):
			m.dispatch(dashboard.PRCreateCancel{})
		}
	case dashboard.PRError:
		switch {
		case key.Matches(msg, m.keys.WebPR):
			m.dispatch(dashboard.PRCreatePhase{Phase: dashboard.PRCreating})
			return m.createPR(true)
		case key.Matches(msg, m.keys.Cancel):
			m.dispatch(dashboard.PRCreateCancel{})
		}
	}
	return nil
}
