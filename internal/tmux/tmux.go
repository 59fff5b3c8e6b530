// Package tmux opens and tracks the tmux windows agent sessions run in.
// Commands target the current tmux server via exec.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNotInTmux is returned by window operations when the dashboard is not
// running inside a tmux client.
var ErrNotInTmux = errors.New("not running inside tmux")

// InTmux reports whether the process runs inside a tmux client.
func InTmux() bool {
	return os.Getenv("TMUX") != ""
}

func run(args ...string) (string, error) {
	cmd := exec.Command("tmux", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// NewWindow opens a window named name with cwd dir running command (the
// default shell when empty) and returns its window ID (e.g. "@7"). The new
// window becomes current.
func NewWindow(dir, name, command string) (string, error) {
	if !InTmux() {
		return "", ErrNotInTmux
	}
	args := []string{"new-window", "-P", "-F", "#{window_id}", "-c", dir}
	if name != "" {
		args = append(args, "-n", name)
	}
	if command != "" {
		args = append(args, command)
	}
	out, err := run(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SelectWindow focuses the window with the given ID.
func SelectWindow(windowID string) error {
	if !InTmux() {
		return ErrNotInTmux
	}
	_, err := run("select-window", "-t", windowID)
	return err
}

// KillWindow closes the window with the given ID.
func KillWindow(windowID string) error {
	_, err := run("kill-window", "-t", windowID)
	return err
}

// SendKeys types text literally into the target window and presses Enter.
func SendKeys(target, text string) error {
	if _, err := run("send-keys", "-l", "-t", target, text); err != nil {
		return err
	}
	_, err := run("send-keys", "-t", target, "Enter")
	return err
}

// ListWindowIDs returns all live window IDs across all sessions. Used as
// the liveness check for recorded agent sessions.
func ListWindowIDs() (map[string]bool, error) {
	out, err := run("list-windows", "-a", "-F", "#{window_id}")
	if err != nil {
		return nil, err
	}
	return parseIDs(out), nil
}

func parseIDs(out string) map[string]bool {
	ids := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids[line] = true
		}
	}
	return ids
}
