package dashboard

import (
	"strings"
	"time"
)

// Overlay is the modal panel on top of the dashboard. At most one is open.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayModeSelect
	OverlayConfirmDelete
	OverlayCommit
	OverlayPRCreate
)

func (o Overlay) String() string {
	switch o {
	case OverlayModeSelect:
		return "mode-select"
	case OverlayConfirmDelete:
		return "confirm-delete"
	case OverlayCommit:
		return "commit"
	case OverlayPRCreate:
		return "pr-create"
	default:
		return "none"
	}
}

// ModePhase is the step of the work-launch overlay.
type ModePhase int

const (
	ModeChoose ModePhase = iota
	// ModeConfirmInit asks whether to run the repository's init script.
	ModeConfirmInit
)

// ModeSelect is the work-launch overlay's state.
type ModeSelect struct {
	TicketID string
	Phase    ModePhase
	// Cursor indexes the mode menu.
	Cursor int
	// Mode is the chosen mode, set when leaving ModeChoose.
	Mode string
}

// ConfirmDelete is the delete confirmation's target.
type ConfirmDelete struct {
	TicketID string
	Branch   string
	Path     string
	Dirty    bool
}

// CommitPhase is the step of the commit-and-push overlay.
type CommitPhase int

const (
	CommitConfirmStage CommitPhase = iota
	CommitAwaitingMessage
	CommitCommitting
	CommitPushing
	CommitPhaseDone
	CommitPhaseError
)

func (p CommitPhase) String() string {
	switch p {
	case CommitConfirmStage:
		return "confirm-stage"
	case CommitAwaitingMessage:
		return "awaiting-message"
	case CommitCommitting:
		return "committing"
	case CommitPushing:
		return "pushing"
	case CommitPhaseDone:
		return "done"
	case CommitPhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// InFlight reports whether an external operation is running.
func (p CommitPhase) InFlight() bool {
	return p == CommitCommitting || p == CommitPushing
}

// Commit is the commit overlay's state.
type Commit struct {
	Phase    CommitPhase
	Message  string
	Worktree string
	Branch   string
	TicketID string
	// Status is the working-tree status shown for confirmation.
	Status string
	Err    string
}

// PRPhase is the step of the PR-create overlay.
type PRPhase int

const (
	PRChooseMode PRPhase = iota
	PRPushing
	PRCreating
	PRDone
	PRError
)

func (p PRPhase) String() string {
	switch p {
	case PRChooseMode:
		return "choose-mode"
	case PRPushing:
		return "pushing"
	case PRCreating:
		return "creating"
	case PRDone:
		return "done"
	case PRError:
		return "error"
	default:
		return "unknown"
	}
}

// InFlight reports whether an external operation is running.
func (p PRPhase) InFlight() bool {
	return p == PRPushing || p == PRCreating
}

// PRCreate is the PR-create overlay's state.
type PRCreate struct {
	Phase    PRPhase
	Branch   string
	Worktree string
	TicketID string
	URL      string
	Err      string
}

// MaxCreationLog bounds the init-script output kept for display.
const MaxCreationLog = 500

// State is everything the dashboard shows. Only Reduce produces new
// states.
type State struct {
	Groups   []ProjectGroup
	Flat     []Issue
	Selected int

	ListScroll   int
	DetailScroll int

	Loading    bool
	Refreshing bool
	// RefreshGen is the generation of the newest started refresh.
	RefreshGen  int
	Error       string
	LastRefresh time.Time

	Overlay       Overlay
	ModeSelect    ModeSelect
	ConfirmDelete ConfirmDelete
	Commit        Commit
	PRCreate      PRCreate

	ActionMessage string
	ActionIsError bool
	// ActionID increases with every message so a timed clear only removes
	// the message it was scheduled for.
	ActionID int

	CreatingFor string
	CreationLog []string
	DeletingFor string
}

// Initial is the state at startup: loading, nothing to show.
func Initial() State {
	return State{Loading: true}
}

// SelectedIssue returns the selected issue, if any.
func (s State) SelectedIssue() (Issue, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Flat) {
		return Issue{}, false
	}
	return s.Flat[s.Selected], true
}

// IssueByID finds an issue by ticket ID.
func (s State) IssueByID(id string) (Issue, bool) {
	if i := indexOf(s.Flat, id); i >= 0 {
		return s.Flat[i], true
	}
	return Issue{}, false
}

func indexOf(flat []Issue, id string) int {
	for i, is := range flat {
		if is.Ticket.ID == id {
			return i
		}
	}
	return -1
}

// ErrEmptyCommitMessage is shown when only the ticket prefix was submitted.
const ErrEmptyCommitMessage = "Commit message is empty"

// NormalizeCommitMessage returns msg as "[ID] text". A message that already
// starts with "[ID]" keeps it; an empty text leaves just the prefix.
func NormalizeCommitMessage(id, msg string) string {
	prefix := "[" + id + "]"
	msg = strings.TrimSpace(msg)
	msg = strings.TrimSpace(strings.TrimPrefix(msg, prefix))
	if msg == "" {
		return prefix
	}
	return prefix + " " + msg
}
