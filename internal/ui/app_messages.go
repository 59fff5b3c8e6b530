package ui

import (
	"time"

	"ticketdash/internal/dashboard"
	"ticketdash/internal/mouse"
	"ticketdash/internal/progress"
)

// MouseMsg is a decoded mouse report from the input filter.
type MouseMsg mouse.Event

// dataLoadedMsg is sent when a refresh started at generation gen finishes.
type dataLoadedMsg struct {
	gen  int
	data dashboard.Data
	err  error
	at   time.Time
}

// tickMsg is the periodic refresh timer.
type tickMsg time.Time

// delayedRefreshMsg is the one-shot refresh after an agent launch.
type delayedRefreshMsg struct{}

// worktreesChangedMsg is sent when the worktree watcher fires.
type worktreesChangedMsg struct{}

// clearMessageMsg expires action message id.
type clearMessageMsg struct{ id int }

// actionResultMsg reports a fire-and-forget action such as opening a URL.
type actionResultMsg struct {
	text string
	err  error
}

// worktreeCreatedMsg is sent when the worktree for a work launch exists.
type worktreeCreatedMsg struct {
	target  launchTarget
	runInit bool
	warning string
	err     error
}

// initOutputMsg carries one init-script event. ch is re-subscribed until a
// terminal event arrives.
type initOutputMsg struct {
	target launchTarget
	event  progress.Event
	ch     <-chan progress.Event
}

// agentLaunchedMsg is sent after an agent window was opened or focused.
type agentLaunchedMsg struct {
	ticketID string
	text     string
	err      error
	// creation is set when the launch ends a create-and-launch workflow.
	creation bool
}

// stagedMsg reports the commit workflow's stage-all step.
type stagedMsg struct {
	status string
	err    error
}

// committedMsg reports the local commit.
type committedMsg struct{ err error }

// commitPushedMsg reports the commit workflow's push.
type commitPushedMsg struct{ err error }

// commitCloseMsg auto-closes a finished commit overlay.
type commitCloseMsg struct{}

// prPushedMsg reports the PR workflow's push.
type prPushedMsg struct {
	web bool
	err error
}

// prCreatedMsg reports the PR creation. url is empty in web mode.
type prCreatedMsg struct {
	url string
	err error
}

// deletedMsg reports a worktree deletion.
type deletedMsg struct {
	ticketID string
	branch   string
	warning  string
	err      error
}
