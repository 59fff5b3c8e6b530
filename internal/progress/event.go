// Package progress carries streamed output of long-running workflow steps
// (the worktree init script) from the goroutine running them to the UI.
package progress

import "time"

// Status indicates the state of a streamed step.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow one with this status.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Event is one line of output, or the final outcome of the step.
type Event struct {
	Message   string
	Status    Status
	Timestamp time.Time
	// Err is set on the StatusError event.
	Err error
}

// ChanEmitter emits events to a channel the UI subscribes to.
type ChanEmitter struct {
	Ch chan<- Event
}

// Emit sends ev. Output lines are dropped when the channel is full so a
// chatty script cannot stall; terminal events always block until delivered.
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.Status.Terminal() {
		e.Ch <- ev
		return
	}
	select {
	case e.Ch <- ev:
	default:
	}
}

// Line emits a running output line.
func (e *ChanEmitter) Line(msg string) {
	e.Emit(Event{Message: msg, Status: StatusRunning})
}

// Finish emits the terminal event for err (nil means success) and closes
// the channel.
func (e *ChanEmitter) Finish(err error) {
	if err != nil {
		e.Emit(Event{Message: err.Error(), Status: StatusError, Err: err})
	} else {
		e.Emit(Event{Status: StatusDone})
	}
	close(e.Ch)
}
