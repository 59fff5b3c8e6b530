package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/mouse"
	"ticketdash/internal/pr"
	"ticketdash/internal/progress"
	"ticketdash/internal/ui/textutil"
)

func TestWork_NoOpWhileCreating(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "Login")})
	h.m.dispatch(dashboard.CreationStart{TicketID: "T-1"})
	before := h.m.State()

	cmd := h.press("w")
	assert.Nil(t, cmd)
	assert.Equal(t, before, h.m.State())
}

func TestDelete_NoOpWhileDeleting(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false))
	h.m.dispatch(dashboard.DeleteStart{TicketID: "T-1"})

	assert.Nil(t, h.press("d"))
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
}

func TestWork_LiveSessionHints(t *testing.T) {
	is := withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false)
	is.Worktree.SessionLive = true
	h := newHarness(t, "", is)

	h.press("w")
	st := h.m.State()
	assert.Equal(t, dashboard.OverlayNone, st.Overlay)
	assert.Contains(t, st.ActionMessage, "press enter")
	assert.False(t, st.ActionIsError)
}

func TestWork_CreateAndLaunch(t *testing.T) {
	h := newHarness(t, "make setup", dashboard.Issue{Ticket: tk("T-1", "Add login")})

	h.press("w")
	require.Equal(t, dashboard.OverlayModeSelect, h.m.State().Overlay)
	h.press("down")
	assert.Equal(t, 1, h.m.State().ModeSelect.Cursor)

	h.press("enter")
	st := h.m.State()
	require.Equal(t, dashboard.ModeConfirmInit, st.ModeSelect.Phase)
	assert.Equal(t, string(agent.ModePlan), st.ModeSelect.Mode)

	create := h.press("y")
	st = h.m.State()
	assert.Equal(t, dashboard.OverlayNone, st.Overlay)
	assert.Equal(t, "T-1", st.CreatingFor)
	require.NotNil(t, create)

	// Worktree created; the batch refreshes and starts the init script.
	next := h.run(create)
	assert.Equal(t, []string{"t-1-add-login@origin/main"}, h.worktrees.created)
	assert.Contains(t, h.m.State().CreationLog, "Created worktree /wt/t-1-add-login")

	// Init output streams into the log, then the agent launches.
	for i := 0; next != nil && len(h.agent.launched) == 0 && i < 10; i++ {
		next = h.run(next)
	}
	require.Len(t, h.agent.launched, 1)
	req := h.agent.launched[0]
	assert.Equal(t, agent.ModePlan, req.Mode)
	assert.Equal(t, "/wt/t-1-add-login", req.Dir)
	assert.NotEmpty(t, req.SessionID)
	assert.False(t, req.Resume)

	st = h.m.State()
	assert.Empty(t, st.CreatingFor)
	assert.Equal(t, "@9", h.sessions.records["t-1-add-login"].WindowID)
}

func TestInitOutput_StreamsIntoCreationLog(t *testing.T) {
	h := newHarness(t, "make setup", dashboard.Issue{Ticket: tk("T-1", "Login")})
	h.m.dispatch(dashboard.CreationStart{TicketID: "T-1"})
	target := launchTarget{ticket: tk("T-1", "Login"), branch: "t-1-login", path: "/wt/t-1-login", mode: agent.ModeImplement}

	wait := h.send(initOutputMsg{target: target, event: progress.Event{Message: "npm install", Status: progress.StatusRunning}})
	require.NotNil(t, wait)
	assert.Equal(t, []string{"npm install"}, h.m.State().CreationLog)

	// A failing script is a warning; the agent still launches.
	launch := h.send(initOutputMsg{target: target, event: progress.Event{Message: "exit status 1", Status: progress.StatusError}})
	assert.Contains(t, h.m.State().CreationLog, "warning: init script failed: exit status 1")
	h.run(launch)
	require.Len(t, h.agent.launched, 1)
	assert.Empty(t, h.m.State().CreatingFor)
}

func TestWork_ExistingWorktreeLaunchesDirectly(t *testing.T) {
	is := withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false)
	is.Worktree.SessionID = "sess-1"
	h := newHarness(t, "make setup", is)
	h.sessions.records["feature/T-1"] = sessionRecord("sess-1", "")

	h.press("w")
	launch := h.press("enter")
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
	h.run(launch)

	require.Len(t, h.agent.launched, 1)
	assert.True(t, h.agent.launched[0].Resume)
	assert.Equal(t, "sess-1", h.agent.launched[0].SessionID)
	assert.Empty(t, h.worktrees.created)
}

func TestModeSelect_EscapeCloses(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "Login")})
	h.press("w")
	h.press("2")
	// No init script: choosing a mode starts creation immediately.
	assert.Equal(t, "T-1", h.m.State().CreatingFor)

	h2 := newHarness(t, "", dashboard.Issue{Ticket: tk("T-2", "Other")})
	h2.press("w")
	h2.press("esc")
	st := h2.m.State()
	assert.Equal(t, dashboard.OverlayNone, st.Overlay)
	assert.Equal(t, dashboard.ModeSelect{}, st.ModeSelect)
	assert.Empty(t, st.CreatingFor)
}

func TestCommit_FullFlow(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, true))

	h.press("c")
	st := h.m.State()
	require.Equal(t, dashboard.OverlayCommit, st.Overlay)
	assert.Equal(t, dashboard.CommitConfirmStage, st.Commit.Phase)

	stage := h.press("y")
	require.NotNil(t, stage)
	assert.Nil(t, h.press("y"), "second confirm while staging")
	h.run(stage)
	st = h.m.State()
	require.Equal(t, dashboard.CommitAwaitingMessage, st.Commit.Phase)
	assert.Equal(t, "[T-1] ", h.m.input.Value())

	h.press("f")
	h.press("i")
	h.press("x")
	commit := h.press("enter")
	assert.Equal(t, dashboard.CommitCommitting, h.m.State().Commit.Phase)

	// In flight: escape is ignored.
	h.press("esc")
	assert.Equal(t, dashboard.OverlayCommit, h.m.State().Overlay)

	push := h.run(commit)
	assert.Equal(t, []string{"[T-1] fix"}, h.worktrees.commits)
	assert.Equal(t, dashboard.CommitPushing, h.m.State().Commit.Phase)

	h.run(push)
	assert.Equal(t, []string{"feature/T-1"}, h.worktrees.pushes)
	assert.Equal(t, dashboard.CommitPhaseDone, h.m.State().Commit.Phase)

	calls := h.loader.calls
	h.run(h.send(commitCloseMsg{}))
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
	assert.Equal(t, calls+1, h.loader.calls)
}

func TestCommit_PushErrorShowsErrorPhase(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, true))
	h.worktrees.pushErr = errors.New("rejected")

	h.press("c")
	h.run(h.press("y"))
	h.press("x")
	commit := h.press("enter")
	h.run(h.run(commit))

	st := h.m.State()
	assert.Equal(t, dashboard.CommitPhaseError, st.Commit.Phase)
	assert.Contains(t, st.Commit.Err, "rejected")

	h.press("esc")
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
	assert.Equal(t, dashboard.Commit{}, h.m.State().Commit)
}

func TestCommit_EmptyMessageIsRejected(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, true))
	h.press("c")
	h.run(h.press("y"))
	require.Equal(t, "[T-1] ", h.m.input.Value())

	assert.Nil(t, h.press("enter"))
	st := h.m.State()
	assert.Equal(t, dashboard.CommitAwaitingMessage, st.Commit.Phase)
	assert.Equal(t, dashboard.ErrEmptyCommitMessage, st.Commit.Err)
	assert.Empty(t, h.worktrees.commits)
	assert.Contains(t, h.m.View(), dashboard.ErrEmptyCommitMessage)

	h.press("x")
	commit := h.press("enter")
	require.NotNil(t, commit)
	assert.Equal(t, dashboard.CommitCommitting, h.m.State().Commit.Phase)
	h.run(commit)
	assert.Equal(t, []string{"[T-1] x"}, h.worktrees.commits)
}

func TestCommit_CleanWorktreeIsRejected(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false))
	h.press("c")
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
	assert.Contains(t, h.m.State().ActionMessage, "Nothing to commit")
}

func TestPRCreate_Fill(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false))

	h.press("P")
	require.Equal(t, dashboard.OverlayPRCreate, h.m.State().Overlay)
	push := h.press("f")
	assert.Equal(t, dashboard.PRPushing, h.m.State().PRCreate.Phase)

	create := h.run(push)
	assert.Equal(t, dashboard.PRCreating, h.m.State().PRCreate.Phase)
	h.run(create)

	st := h.m.State()
	assert.Equal(t, dashboard.PRDone, st.PRCreate.Phase)
	assert.Equal(t, "https://github.com/o/r/pull/7", st.PRCreate.URL)
	require.Len(t, h.prs.created, 1)
	opts := h.prs.created[0]
	assert.Equal(t, "[T-1] Login", opts.Title)
	assert.Equal(t, "origin/main", opts.Base)
	assert.False(t, opts.Web)

	h.run(h.press("enter"))
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
	assert.Equal(t, []string{"https://github.com/o/r/pull/7"}, h.opener.urls)
}

func TestPRCreate_ErrorOffersWebForm(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false))
	h.worktrees.pushErr = errors.New("no remote")

	h.press("P")
	h.run(h.press("w"))
	require.Equal(t, dashboard.PRError, h.m.State().PRCreate.Phase)

	h.run(h.press("w"))
	assert.Equal(t, dashboard.PRDone, h.m.State().PRCreate.Phase)
	require.Len(t, h.prs.created, 1)
	assert.True(t, h.prs.created[0].Web)
}

func TestPRCreate_OpenPRIsNotDuplicated(t *testing.T) {
	is := withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false)
	is.PR = &pr.PullRequest{Number: 3, State: pr.StateOpen}
	h := newHarness(t, "", is)

	h.press("P")
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)
}

func TestDelete_Flow(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, true))
	h.sessions.records["feature/T-1"] = sessionRecord("s", "@4")

	h.press("d")
	require.Equal(t, dashboard.OverlayConfirmDelete, h.m.State().Overlay)
	assert.True(t, h.m.State().ConfirmDelete.Dirty)

	del := h.press("y")
	st := h.m.State()
	assert.Equal(t, dashboard.OverlayNone, st.Overlay)
	assert.Equal(t, "T-1", st.DeletingFor)

	h.run(del)
	assert.Equal(t, []string{"feature/T-1"}, h.worktrees.removed)
	assert.True(t, h.worktrees.forced)
	assert.Equal(t, []string{"feature/T-1"}, h.worktrees.deleted)
	assert.Equal(t, []string{"@4"}, h.agent.closed)
	assert.NotContains(t, h.sessions.records, "feature/T-1")
	assert.Empty(t, h.m.State().DeletingFor)
}

func TestSwitch_FocusesLiveWindow(t *testing.T) {
	is := withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false)
	is.Worktree.SessionLive = true
	h := newHarness(t, "", is)
	h.sessions.records["feature/T-1"] = sessionRecord("s", "@4")

	h.run(h.press("enter"))
	assert.Equal(t, []string{"@4"}, h.agent.focused)
	assert.Empty(t, h.agent.launched)
}

func TestFix_SendsToLiveSession(t *testing.T) {
	is := withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login")}, false)
	is.Worktree.SessionLive = true
	is.PR = &pr.PullRequest{Number: 3, State: pr.StateOpen}
	is.Checks = []pr.Check{{Name: "lint", Bucket: pr.BucketFail}}
	h := newHarness(t, "", is)
	h.sessions.records["feature/T-1"] = sessionRecord("s", "@4")

	h.run(h.press("f"))
	assert.Equal(t, []string{"@4"}, h.agent.sent)
}

func TestCopyBranch(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "Add login")})
	h.run(h.press("y"))
	assert.Equal(t, []string{"t-1-add-login"}, h.opener.copied)
}

func TestMovementAndSelectionPreservation(t *testing.T) {
	a := dashboard.Issue{Ticket: tk("T-1", "One")}
	b := dashboard.Issue{Ticket: tk("T-2", "Two")}
	h := newHarness(t, "", a, b)

	h.press("j")
	assert.Equal(t, 1, h.m.State().Selected)
	h.press("j")
	assert.Equal(t, 1, h.m.State().Selected, "clamped at the end")

	// Reload in the opposite order: T-2 stays selected.
	groups := dashboard.Group([]dashboard.Issue{b, a}, nil)
	h.loader.data = dashboard.Data{Groups: groups, Flat: dashboard.Flatten(groups)}
	h.run(h.press("r"))
	assert.Equal(t, "T-2", h.m.State().Flat[h.m.State().Selected].ID())
	assert.Equal(t, 1, h.prs.cleared)
}

func TestStaleLoadIsDropped(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "One")})
	stale := h.m.refresh()()

	h.loader.data = dashboard.Data{}
	h.run(h.m.refresh())
	h.send(stale)
	assert.Empty(t, h.m.State().Flat)
	assert.Equal(t, 3, h.loader.calls)
}

func TestLoadError_FullScreen(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "One")})
	h.loader.err = errors.New("linear: 401 Unauthorized")
	h.run(h.press("r"))

	view := h.m.View()
	assert.Contains(t, view, "Could not load")
	assert.Contains(t, view, "401")
	assert.Nil(t, h.press("w"))
	assert.Equal(t, dashboard.OverlayNone, h.m.State().Overlay)

	h.loader.err = nil
	h.run(h.press("r"))
	assert.Empty(t, h.m.State().Error)
}

func TestMouse_ClickWheelAndDrag(t *testing.T) {
	issues := []dashboard.Issue{
		{Ticket: tk("T-1", "One")},
		{Ticket: tk("T-2", "Two")},
		{Ticket: tk("T-3", "Three")},
	}
	h := newHarness(t, "", issues...)
	_ = h.m.View()

	// Rows: label 0, project 1, status 2, issues 3..5. Screen row is
	// header + row; mouse coordinates are 1-based.
	h.send(MouseMsg{Kind: mouse.Press, Button: mouse.ButtonLeft, X: 3, Y: headerHeight + 5 + 1})
	assert.Equal(t, 2, h.m.State().Selected)

	h.send(MouseMsg{Kind: mouse.Press, Button: mouse.ButtonLeft, X: 3, Y: headerHeight + 2 + 1})
	assert.Equal(t, 2, h.m.State().Selected, "status header is not selectable")

	h.send(MouseMsg{Kind: mouse.WheelUp, X: 3, Y: headerHeight + 1})
	assert.Equal(t, 1, h.m.State().Selected)

	split := h.m.split
	h.send(MouseMsg{Kind: mouse.Press, Button: mouse.ButtonLeft, X: split + 1, Y: headerHeight + 1})
	assert.True(t, h.m.dragging)
	h.send(MouseMsg{Kind: mouse.Drag, Button: mouse.ButtonLeft, X: 5, Y: headerHeight + 1})
	assert.Equal(t, minPaneWidth, h.m.split)
	h.send(MouseMsg{Kind: mouse.Drag, Button: mouse.ButtonLeft, X: 100, Y: headerHeight + 1})
	assert.Equal(t, 100-dividerWidth-minPaneWidth, h.m.split)
	h.send(MouseMsg{Kind: mouse.Release, X: 100, Y: headerHeight + 1})
	assert.False(t, h.m.dragging)

	// Wheel over the detail pane scrolls it, never below zero.
	h.send(MouseMsg{Kind: mouse.WheelUp, X: 95, Y: headerHeight + 1})
	assert.Equal(t, 0, h.m.State().DetailScroll)
}

func TestMouse_DividerGrabRange(t *testing.T) {
	h := newHarness(t, "", dashboard.Issue{Ticket: tk("T-1", "One")})
	split := h.m.split
	row := headerHeight + 1

	// 0-based columns split-1, split and split+1 start a drag.
	for _, x := range []int{split - 1, split, split + 1} {
		h.send(MouseMsg{Kind: mouse.Press, Button: mouse.ButtonLeft, X: x + 1, Y: row})
		assert.True(t, h.m.dragging, "column %d", x)
		h.send(MouseMsg{Kind: mouse.Release, X: x + 1, Y: row})
		assert.Equal(t, split, h.m.split)
	}
	for _, x := range []int{split - 2, split + 2} {
		h.send(MouseMsg{Kind: mouse.Press, Button: mouse.ButtonLeft, X: x + 1, Y: row})
		assert.False(t, h.m.dragging, "column %d", x)
	}
}

func TestScrollDetail_ClampedWithoutRender(t *testing.T) {
	long := tk("T-1", "Long")
	var b strings.Builder
	for i := range 80 {
		b.WriteString("Paragraph " + strings.Repeat("x", i%7+1) + "\n\n")
	}
	long.Description = b.String()
	h := newHarness(t, "", dashboard.Issue{Ticket: long})
	limit := h.m.detailMaxScroll()
	require.Positive(t, limit)

	// No View call between inputs: the bound comes from the content.
	for range limit {
		h.send(tea.KeyMsg{Type: tea.KeyShiftDown})
	}
	assert.Equal(t, limit, h.m.State().DetailScroll)

	h.send(tea.KeyMsg{Type: tea.KeyShiftUp})
	assert.Equal(t, limit-detailScrollStep, h.m.State().DetailScroll)

	for range limit {
		h.send(tea.KeyMsg{Type: tea.KeyShiftUp})
	}
	assert.Equal(t, 0, h.m.State().DetailScroll)

	// An offset past the content is clamped when rendered.
	h.m.dispatch(dashboard.ScrollDetail{Offset: limit + 50})
	lines := h.m.renderDetail(h.m.detailWidth(), h.m.bodyHeight())
	want := textutil.Fit(h.m.detailLines(h.m.detailWidth())[limit], h.m.detailWidth())
	assert.Equal(t, want, lines[0])
}

func TestView_RendersPanesAndOverlay(t *testing.T) {
	h := newHarness(t, "", withWorktree(dashboard.Issue{Ticket: tk("T-1", "Login flow")}, true))
	view := h.m.View()
	assert.Contains(t, view, "T-1")
	assert.Contains(t, view, "Login flow")
	assert.Contains(t, view, "Uncommitted changes")
	assert.Len(t, strings.Split(view, "\n"), 30)

	h.press("d")
	view = h.m.View()
	assert.Contains(t, view, "Delete worktree for T-1?")
	assert.Len(t, strings.Split(view, "\n"), 30)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, "")
	cmd := h.press("q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
