package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/pr"
	"ticketdash/internal/progress"
	"ticketdash/internal/session"
	"ticketdash/internal/telemetry"
	"ticketdash/internal/ticket"
)

// launchTarget is one agent window to open.
type launchTarget struct {
	ticket ticket.Ticket
	branch string
	path   string
	base   string
	mode   agent.Mode
	prompt string
	// resume continues the branch's recorded session when there is one.
	resume bool
}

func (m *Model) handleWorkflowMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case worktreeCreatedMsg:
		return m.onWorktreeCreated(msg)
	case initOutputMsg:
		return m.onInitOutput(msg)
	case agentLaunchedMsg:
		return m.onAgentLaunched(msg)
	case stagedMsg:
		return m.onStaged(msg)
	case committedMsg:
		return m.onCommitted(msg)
	case commitPushedMsg:
		return m.onCommitPushed(msg)
	case commitCloseMsg:
		if m.state.Overlay == dashboard.OverlayCommit && m.state.Commit.Phase == dashboard.CommitPhaseDone {
			m.closeCommit()
			return m.refresh()
		}
	case prPushedMsg:
		return m.onPRPushed(msg)
	case prCreatedMsg:
		return m.onPRCreated(msg)
	case deletedMsg:
		return m.onDeleted(msg)
	}
	return nil
}

// Create and launch.

// startCreate creates a worktree for t and then launches mode in it.
func (m *Model) startCreate(t ticket.Ticket, mode agent.Mode, runInit bool) tea.Cmd {
	if m.state.CreatingFor != "" {
		return m.notify(fmt.Sprintf("Already creating a worktree for %s", m.state.CreatingFor), true)
	}
	m.dispatch(dashboard.CreationStart{TicketID: t.ID})
	target := launchTarget{
		ticket: t,
		branch: ticket.BranchName(t, m.deps.BranchPrefix),
		mode:   mode,
		prompt: agent.WorkPrompt(t, mode),
	}
	return createWorktreeCmd(m.ctx, m.deps, target, runInit && m.deps.InitScript != "")
}

func createWorktreeCmd(ctx context.Context, deps Deps, target launchTarget, runInit bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		ctx, span := telemetry.Start(ctx, "workflow.create",
			attribute.String("ticket", target.ticket.ID), attribute.String("mode", string(target.mode)))
		defer func() { telemetry.End(span, err) }()

		var warning string
		if ferr := deps.Worktrees.FetchLatest(ctx); ferr != nil {
			slog.Warn("fetch latest failed", "err", ferr)
			warning = "warning: fetch failed, starting from local default branch: " + ferr.Error()
		}
		target.base, err = deps.Worktrees.DefaultBranch(ctx)
		if err != nil {
			return worktreeCreatedMsg{target: target, err: err}
		}
		target.path, err = deps.Worktrees.Create(ctx, target.branch, target.base)
		if err != nil {
			return worktreeCreatedMsg{target: target, err: err}
		}
		slog.Info("worktree created", "ticket", target.ticket.ID, "path", target.path, "base", target.base)

		rec := session.Record{BaseBranch: target.base, Mode: string(target.mode), CreatedAt: time.Now().UTC()}
		if target.mode != agent.ModeShell {
			rec.SessionID = session.NewSessionID()
		}
		if perr := deps.Sessions.Put(target.branch, rec); perr != nil {
			slog.Warn("record session failed", "branch", target.branch, "err", perr)
		}
		return worktreeCreatedMsg{target: target, runInit: runInit, warning: warning}
	}
}

func (m *Model) onWorktreeCreated(msg worktreeCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(dashboard.CreationError{Err: fmt.Sprintf("Create worktree for %s: %v", msg.target.ticket.ID, msg.err)})
		return clearMessageCmd(m.state.ActionID, messageTTL)
	}
	if msg.warning != "" {
		m.dispatch(dashboard.CreationLog{Line: msg.warning})
	}
	m.dispatch(dashboard.CreationLog{Line: "Created worktree " + msg.target.path})
	if msg.runInit {
		m.dispatch(dashboard.CreationLog{Line: "Running init script: " + m.deps.InitScript})
		return tea.Batch(m.refresh(), startInitCmd(m.ctx, m.deps.RunScript, m.deps.InitScript, msg.target))
	}
	return tea.Batch(m.refresh(), launchCmd(m.ctx, m.deps, msg.target, true))
}

func (m *Model) onInitOutput(msg initOutputMsg) tea.Cmd {
	switch msg.event.Status {
	case progress.StatusRunning:
		m.dispatch(dashboard.CreationLog{Line: msg.event.Message})
		return waitForInit(msg.target, msg.ch)
	case progress.StatusError:
		m.dispatch(dashboard.CreationLog{Line: "warning: init script failed: " + msg.event.Message})
	default:
		m.dispatch(dashboard.CreationLog{Line: "Init script finished"})
	}
	return launchCmd(m.ctx, m.deps, msg.target, true)
}

// launchCmd opens an agent (or shell) window for target and records it in
// the branch's session.
func launchCmd(ctx context.Context, deps Deps, target launchTarget, creation bool) tea.Cmd {
	return func() tea.Msg {
		rec, _ := deps.Sessions.Get(target.branch)
		req := agent.Request{
			Dir:    target.path,
			Name:   target.ticket.ID,
			Mode:   target.mode,
			Prompt: target.prompt,
		}
		if target.mode != agent.ModeShell {
			if rec.SessionID != "" {
				req.SessionID = rec.SessionID
				req.Resume = target.resume
			} else {
				req.SessionID = session.NewSessionID()
			}
		}
		windowID, err := deps.Agent.Launch(ctx, req)
		if err != nil {
			return agentLaunchedMsg{ticketID: target.ticket.ID, err: err, creation: creation}
		}
		uerr := deps.Sessions.Update(target.branch, func(r *session.Record) {
			r.WindowID = windowID
			r.Mode = string(target.mode)
			if req.SessionID != "" {
				r.SessionID = req.SessionID
			}
			if r.BaseBranch == "" {
				r.BaseBranch = target.base
			}
		})
		if uerr != nil {
			slog.Warn("record session window failed", "branch", target.branch, "err", uerr)
		}
		slog.Info("agent launched", "ticket", target.ticket.ID, "window", windowID, "mode", target.mode, "resume", req.Resume)
		return agentLaunchedMsg{
			ticketID: target.ticket.ID,
			text:     fmt.Sprintf("%s: opened %s window %s", target.ticket.ID, target.mode, windowID),
			creation: creation,
		}
	}
}

func (m *Model) onAgentLaunched(msg agentLaunchedMsg) tea.Cmd {
	if msg.err != nil {
		text := fmt.Sprintf("Launch for %s failed: %v", msg.ticketID, msg.err)
		if msg.creation {
			m.dispatch(dashboard.CreationError{Err: text})
			return tea.Batch(clearMessageCmd(m.state.ActionID, messageTTL), m.refresh())
		}
		return m.notify(text, true)
	}
	if msg.creation {
		m.dispatch(dashboard.CreationDone{})
	}
	return tea.Batch(m.notify(msg.text, false), delayedRefreshCmd(launchRefresh))
}

// Commit and push.

func (m *Model) closeCommit() {
	m.input.Blur()
	m.input.SetValue("")
	m.staging = false
	m.dispatch(dashboard.CommitCancel{})
}

func stageCmd(ctx context.Context, wt Worktrees, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, span := telemetry.Start(ctx, "workflow.commit", attribute.String("step", "stage"))
		err := wt.StageAll(ctx, path)
		telemetry.End(span, err)
		if err != nil {
			return stagedMsg{err: err}
		}
		return stagedMsg{status: wt.Status(ctx, path)}
	}
}

func commitCmd(ctx context.Context, wt Worktrees, path, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, span := telemetry.Start(ctx, "workflow.commit", attribute.String("step", "commit"))
		err := wt.Commit(ctx, path, message)
		telemetry.End(span, err)
		return committedMsg{err: err}
	}
}

func pushCmd(ctx context.Context, wt Worktrees, path, branch string) tea.Cmd {
	return func() tea.Msg {
		ctx, span := telemetry.Start(ctx, "workflow.commit", attribute.String("step", "push"))
		err := wt.Push(ctx, path, branch)
		telemetry.End(span, err)
		return commitPushedMsg{err: err}
	}
}

func (m *Model) onStaged(msg stagedMsg) tea.Cmd {
	m.staging = false
	if msg.err != nil {
		m.dispatch(dashboard.CommitError{Err: "Stage failed: " + msg.err.Error()})
		return nil
	}
	m.dispatch(dashboard.CommitPhaseChange{Phase: dashboard.CommitAwaitingMessage, Status: msg.status})
	if m.state.Overlay != dashboard.OverlayCommit {
		return nil
	}
	m.input.SetValue(m.state.Commit.Message)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) onCommitted(msg committedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(dashboard.CommitError{Err: "Commit failed: " + msg.err.Error()})
		return nil
	}
	m.dispatch(dashboard.CommitPhaseChange{Phase: dashboard.CommitPushing})
	c := m.state.Commit
	return pushCmd(m.ctx, m.deps.Worktrees, c.Worktree, c.Branch)
}

func (m *Model) onCommitPushed(msg commitPushedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(dashboard.CommitError{Err: "Push failed: " + msg.err.Error()})
		return nil
	}
	m.dispatch(dashboard.CommitDone{})
	return tea.Tick(commitCloseDelay, func(time.Time) tea.Msg { return commitCloseMsg{} })
}

// Pull request creation.

func prPushCmd(ctx context.Context, wt Worktrees, path, branch string, web bool) tea.Cmd {
	return func() tea.Msg {
		ctx, span := telemetry.Start(ctx, "workflow.pr_create", attribute.String("step", "push"))
		err := wt.Push(ctx, path, branch)
		telemetry.End(span, err)
		return prPushedMsg{web: web, err: err}
	}
}

// prCreateCmd opens the PR for the overlay's branch. Fill mode asks the
// agent for the description first.
func prCreateCmd(ctx context.Context, deps Deps, is dashboard.Issue, web bool) tea.Cmd {
	wt := is.Worktree
	return func() tea.Msg {
		var err error
		ctx, span := telemetry.Start(ctx, "workflow.pr_create",
			attribute.String("ticket", is.ID()), attribute.Bool("web", web))
		defer func() { telemetry.End(span, err) }()

		base := wt.BaseBranch
		if base == "" {
			base, _ = deps.Worktrees.DefaultBranch(ctx)
		}
		opts := pr.CreateOptions{Branch: wt.Branch, Base: base, Web: web}
		if !web {
			log, stat := deps.Worktrees.Summary(ctx, wt.Path, base)
			opts.Title, opts.Body, err = deps.Agent.SynthesizePRBody(ctx, wt.Path, is.Ticket, log, stat)
			if err != nil {
				err = fmt.Errorf("describe PR: %w", err)
				return prCreatedMsg{err: err}
			}
		}
		url, err := deps.PRs.Create(ctx, opts)
		if err == nil {
			slog.Info("pull request created", "ticket", is.ID(), "url", url, "web", web)
		}
		return prCreatedMsg{url: url, err: err}
	}
}

func (m *Model) onPRPushed(msg prPushedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(dashboard.PRCreateError{Err: "Push failed: " + msg.err.Error()})
		return nil
	}
	m.dispatch(dashboard.PRCreatePhase{Phase: dashboard.PRCreating})
	return m.createPR(msg.web)
}

func (m *Model) createPR(web bool) tea.Cmd {
	is, ok := m.state.IssueByID(m.state.PRCreate.TicketID)
	if !ok || is.Worktree == nil {
		m.dispatch(dashboard.PRCreateError{Err: "Worktree is gone"})
		return nil
	}
	return prCreateCmd(m.ctx, m.deps, is, web)
}

func (m *Model) onPRCreated(msg prCreatedMsg) tea.Cmd {
	if msg.err != nil {
		m.dispatch(dashboard.PRCreateError{Err: msg.err.Error()})
		return nil
	}
	m.dispatch(dashboard.PRCreateDone{URL: msg.url})
	m.deps.PRs.ClearCache()
	return m.refresh()
}

// Delete.

func deleteCmd(ctx context.Context, deps Deps, target dashboard.ConfirmDelete) tea.Cmd {
	return func() tea.Msg {
		var err error
		ctx, span := telemetry.Start(ctx, "workflow.delete",
			attribute.String("ticket", target.TicketID), attribute.Bool("force", target.Dirty))
		defer func() { telemetry.End(span, err) }()

		rec, _ := deps.Sessions.Get(target.Branch)
		if err = deps.Worktrees.Remove(ctx, target.Branch, target.Dirty); err != nil {
			return deletedMsg{ticketID: target.TicketID, branch: target.Branch, err: err}
		}
		slog.Info("worktree removed", "ticket", target.TicketID, "path", target.Path, "force", target.Dirty)

		var warning string
		if berr := deps.Worktrees.DeleteBranch(ctx, target.Branch); berr != nil {
			slog.Warn("delete branch failed", "branch", target.Branch, "err", berr)
			warning = "branch kept: " + berr.Error()
		}
		if kerr := deps.Agent.Close(rec.WindowID); kerr != nil {
			slog.Debug("close agent window failed", "window", rec.WindowID, "err", kerr)
		}
		if serr := deps.Sessions.Delete(target.Branch); serr != nil {
			slog.Warn("forget session failed", "branch", target.Branch, "err", serr)
		}
		return deletedMsg{ticketID: target.TicketID, branch: target.Branch, warning: warning}
	}
}

func (m *Model) onDeleted(msg deletedMsg) tea.Cmd {
	m.dispatch(dashboard.DeleteDone{})
	if msg.err != nil {
		return tea.Batch(m.notify(fmt.Sprintf("Delete %s failed: %v", msg.ticketID, msg.err), true), m.refresh())
	}
	text := "Deleted worktree for " + msg.ticketID
	if msg.warning != "" {
		text += " (" + msg.warning + ")"
	}
	return tea.Batch(m.notify(text, msg.warning != ""), m.refresh())
}
