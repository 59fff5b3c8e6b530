// Package pty runs commands on a pseudo-terminal so tools that colour or
// buffer differently when piped behave as they would interactively.
package pty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
)

// Size represents terminal dimensions in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner is the interface for spawning a command on a PTY.
// Implementations can be swapped (e.g. creack/pty, or a pipe for tests).
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadCloser, error)
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

var _ Runner = (*CreackPTY)(nil)

// Start implements Runner. Spawns cmd in a PTY with the given size and
// returns the PTY master for reading its output.
func (c *CreackPTY) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadCloser, error) {
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DefaultSize is used for init scripts; wide enough that progress bars do
// not wrap in the detail pane's log.
var DefaultSize = Size{Rows: 24, Cols: 120}

// RunScript runs script with `sh -c` in dir and calls emit for every output
// line with escape sequences stripped. It returns when the script exits;
// a non-zero exit is an error.
func RunScript(ctx context.Context, r Runner, dir, script string, emit func(line string)) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "TICKETDASH_WORKTREE="+dir)

	out, err := r.Start(ctx, cmd, DefaultSize)
	if err != nil {
		return fmt.Errorf("start init script: %w", err)
	}
	defer out.Close()

	sc := bufio.NewScanner(out)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(ansi.Strip(sc.Text()), "\r ")
		if line != "" {
			emit(line)
		}
	}
	// Reading a PTY master after the child exits fails with EIO on Linux.
	if err := sc.Err(); err != nil && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
		_ = cmd.Wait()
		return fmt.Errorf("read init script output: %w", err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("init script: %w", err)
	}
	return nil
}
