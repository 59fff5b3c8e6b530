// Package agent launches the AI coding agent (the claude CLI by default) in
// tmux windows and asks it for one-shot text such as PR descriptions.
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"ticketdash/internal/ticket"
	"ticketdash/internal/tmux"
)

// Mode selects how a work session starts.
type Mode string

const (
	ModeImplement Mode = "implement"
	ModePlan      Mode = "plan"
	// ModeShell opens a plain shell in the worktree without an agent.
	ModeShell Mode = "shell"
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{ModeImplement, ModePlan, ModeShell}

// Label is the menu text for m.
func (m Mode) Label() string {
	switch m {
	case ModePlan:
		return "Plan first (agent in plan mode)"
	case ModeShell:
		return "Shell only (no agent)"
	default:
		return "Implement (agent)"
	}
}

// Windows is the terminal-multiplexer surface the launcher needs.
type Windows interface {
	NewWindow(dir, name, command string) (string, error)
	SelectWindow(windowID string) error
	SendKeys(target, text string) error
	KillWindow(windowID string) error
}

// TmuxWindows implements Windows with the tmux package.
type TmuxWindows struct{}

func (TmuxWindows) NewWindow(dir, name, command string) (string, error) {
	return tmux.NewWindow(dir, name, command)
}

func (TmuxWindows) SelectWindow(windowID string) error { return tmux.SelectWindow(windowID) }

func (TmuxWindows) SendKeys(target, text string) error { return tmux.SendKeys(target, text) }

func (TmuxWindows) KillWindow(windowID string) error { return tmux.KillWindow(windowID) }

// Request describes one agent window.
type Request struct {
	Dir       string
	Name      string // window name, normally the ticket ID
	SessionID string
	// Resume continues SessionID instead of starting it.
	Resume bool
	Mode   Mode
	Prompt string
}

// Launcher starts agent sessions.
type Launcher struct {
	Command string
	Args    []string
	Windows Windows

	output func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// NewLauncher returns a launcher for command (default "claude") that opens
// tmux windows.
func NewLauncher(command string, args []string) *Launcher {
	if command == "" {
		command = "claude"
	}
	return &Launcher{
		Command: command,
		Args:    args,
		Windows: TmuxWindows{},
		output:  execOutput,
	}
}

func execOutput(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// CommandLine renders the shell command for req. Shell mode yields "",
// which opens the user's default shell.
func (l *Launcher) CommandLine(req Request) string {
	if req.Mode == ModeShell {
		return ""
	}
	args := append([]string{l.Command}, l.Args...)
	if req.Mode == ModePlan {
		args = append(args, "--permission-mode", "plan")
	}
	switch {
	case req.Resume && req.SessionID != "":
		args = append(args, "--resume", req.SessionID)
	case req.SessionID != "":
		args = append(args, "--session-id", req.SessionID)
	}
	if req.Prompt != "" {
		args = append(args, req.Prompt)
	}
	return shellquote.Join(args...)
}

// Launch opens a window running the agent and returns its window ID.
func (l *Launcher) Launch(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := l.Windows.NewWindow(req.Dir, req.Name, l.CommandLine(req))
	if err != nil {
		return "", fmt.Errorf("launch agent: %w", err)
	}
	return id, nil
}

// Focus switches to an existing window.
func (l *Launcher) Focus(windowID string) error {
	return l.Windows.SelectWindow(windowID)
}

// Send types prompt into a running agent window.
func (l *Launcher) Send(windowID, prompt string) error {
	if err := l.Windows.SendKeys(windowID, prompt); err != nil {
		return err
	}
	return l.Windows.SelectWindow(windowID)
}

// Close kills a window. Closing a window that is already gone is not an
// error.
func (l *Launcher) Close(windowID string) error {
	if windowID == "" {
		return nil
	}
	if err := l.Windows.KillWindow(windowID); err != nil && !strings.Contains(err.Error(), "can't find window") {
		return err
	}
	return nil
}

// ErrEmptyOutput is returned when the agent produced no text.
var ErrEmptyOutput = errors.New("agent returned no output")

// SynthesizePRBody asks the agent, non-interactively, to describe the
// branch in dir. Returns the PR title and body.
func (l *Launcher) SynthesizePRBody(ctx context.Context, dir string, t ticket.Ticket, log, stat string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()
	args := append(append([]string{}, l.Args...), "-p", PRBodyPrompt(t, log, stat))
	out, err := l.output(ctx, dir, l.Command, args...)
	if err != nil {
		return "", "", err
	}
	body := strings.TrimSpace(string(out))
	if body == "" {
		return "", "", ErrEmptyOutput
	}
	return PRTitle(t), body, nil
}
