package dashboard

import "time"

// Action is a request to change State. The set is closed: only types in
// this file implement it.
type Action interface {
	isAction()
}

// SetData replaces the aggregated data. Loads whose Gen is older than the
// newest started refresh are dropped.
type SetData struct {
	Data Data
	Gen  int
	At   time.Time
}

type Select struct{ Index int }

type ScrollList struct{ Offset int }

type ScrollDetail struct{ Offset int }

// RefreshStart begins a new refresh generation.
type RefreshStart struct{}

type RefreshDone struct{}

// SetError records a failed load.
type SetError struct {
	Err string
	Gen int
}

// SetOverlay opens the given overlay, seeding the fields that belong to
// it, or closes any overlay with OverlayNone.
type SetOverlay struct {
	Overlay       Overlay
	ModeSelect    ModeSelect
	ConfirmDelete ConfirmDelete
}

// SetActionMessage shows a transient message. With Text empty and Expire
// set, it clears the message only if ActionID still equals Expire.
type SetActionMessage struct {
	Text    string
	IsError bool
	Expire  int
}

type CreationStart struct{ TicketID string }

type CreationLog struct{ Line string }

type CreationDone struct{}

type CreationError struct{ Err string }

type DeleteStart struct{ TicketID string }

type DeleteDone struct{}

type CommitStart struct {
	TicketID string
	Branch   string
	Worktree string
	Status   string
}

// CommitPhaseChange moves the commit overlay to Phase. A non-empty Status
// replaces the status snapshot.
type CommitPhaseChange struct {
	Phase  CommitPhase
	Status string
}

// CommitMessage submits the message and starts committing.
type CommitMessage struct{ Message string }

type CommitError struct{ Err string }

type CommitDone struct{}

type CommitCancel struct{}

type PRCreateStart struct {
	TicketID string
	Branch   string
	Worktree string
}

type PRCreatePhase struct{ Phase PRPhase }

type PRCreateError struct{ Err string }

type PRCreateDone struct{ URL string }

type PRCreateCancel struct{}

func (SetData) isAction()           {}
func (Select) isAction()            {}
func (ScrollList) isAction()        {}
func (ScrollDetail) isAction()      {}
func (RefreshStart) isAction()      {}
func (RefreshDone) isAction()       {}
func (SetError) isAction()          {}
func (SetOverlay) isAction()        {}
func (SetActionMessage) isAction()  {}
func (CreationStart) isAction()     {}
func (CreationLog) isAction()       {}
func (CreationDone) isAction()      {}
func (CreationError) isAction()     {}
func (DeleteStart) isAction()       {}
func (DeleteDone) isAction()        {}
func (CommitStart) isAction()       {}
func (CommitPhaseChange) isAction() {}
func (CommitMessage) isAction()     {}
func (CommitError) isAction()       {}
func (CommitDone) isAction()        {}
func (CommitCancel) isAction()      {}
func (PRCreateStart) isAction()     {}
func (PRCreatePhase) isAction()     {}
func (PRCreateError) isAction()     {}
func (PRCreateDone) isAction()      {}
func (PRCreateCancel) isAction()    {}
