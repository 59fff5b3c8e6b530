// Package term owns the terminal modes the dashboard needs: the alternate
// screen, a hidden cursor, SGR mouse reporting and raw input.
package term

import (
	"io"
	"sync"

	"github.com/charmbracelet/x/ansi"
	xterm "github.com/charmbracelet/x/term"
)

var (
	enterSeq = ansi.SetMode(ansi.ModeAltScreenSaveCursor) +
		ansi.ResetMode(ansi.ModeTextCursorEnable) +
		ansi.SetMode(ansi.ModeMouseButtonEvent) +
		ansi.SetMode(ansi.ModeMouseExtSgr)
	leaveSeq = ansi.ResetMode(ansi.ModeMouseExtSgr) +
		ansi.ResetMode(ansi.ModeMouseButtonEvent) +
		ansi.SetMode(ansi.ModeTextCursorEnable) +
		ansi.ResetMode(ansi.ModeAltScreenSaveCursor)
)

type rawModer interface {
	isTerminal(fd uintptr) bool
	makeRaw(fd uintptr) (*xterm.State, error)
	restore(fd uintptr, st *xterm.State) error
}

type sysRaw struct{}

func (sysRaw) isTerminal(fd uintptr) bool { return xterm.IsTerminal(fd) }
func (sysRaw) makeRaw(fd uintptr) (*xterm.State, error) { return xterm.MakeRaw(fd) }
func (sysRaw) restore(fd uintptr, st *xterm.State) error { return xterm.Restore(fd, st) }

// Screen is the terminal as a resource: Acquire switches modes on and
// Release puts everything back. Release is idempotent and safe to call from
// any goroutine, so it can sit in a defer, a signal handler and a panic
// handler at once.
type Screen struct {
	inFd uintptr
	out  io.Writer
	raw  rawModer

	mu       sync.Mutex
	acquired bool
	state    *xterm.State
	release  sync.Once
}

// New returns a screen reading from the terminal at inFd and writing
// control sequences to out.
func New(inFd uintptr, out io.Writer) *Screen {
	return &Screen{inFd: inFd, out: out, raw: sysRaw{}}
}

// Acquire enters raw mode (when input is a terminal) and enables the
// alternate screen, hidden cursor and mouse reporting.
func (s *Screen) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquired {
		return nil
	}
	if s.raw.isTerminal(s.inFd) {
		st, err := s.raw.makeRaw(s.inFd)
		if err != nil {
			return err
		}
		s.state = st
	}
	s.acquired = true
	_, err := io.WriteString(s.out, enterSeq)
	return err
}

// Release undoes Acquire. Calls after the first, and calls without a prior
// Acquire, do nothing.
func (s *Screen) Release() error {
	var err error
	s.release.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.acquired {
			return
		}
		_, err = io.WriteString(s.out, leaveSeq)
		if s.state != nil {
			if rerr := s.raw.restore(s.inFd, s.state); rerr != nil && err == nil {
				err = rerr
			}
			s.state = nil
		}
		s.acquired = false
	})
	return err
}
