// Package opener hands URLs, directories and text to desktop programs:
// the browser, the user's editor and the clipboard.
package opener

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/kballard/go-shellquote"

	"ticketdash/internal/jsonutil"
)

// ErrNoEditor is returned when neither the configured editor nor $VISUAL or
// $EDITOR is set.
var ErrNoEditor = errors.New("no editor configured (set editor, TICKETDASH_EDITOR or $EDITOR)")

// Opener launches external programs. Programs are started detached; the
// dashboard never waits for them.
type Opener struct {
	// Editor is the editor command line, e.g. "code --new-window".
	Editor string

	start     func(name string, args ...string) error
	copyText  func(string) error
	lookupEnv func(string) string
}

// New returns an opener that uses editor, falling back to $VISUAL then
// $EDITOR.
func New(editor string) *Opener {
	return &Opener{
		Editor:    editor,
		start:     startDetached,
		copyText:  clipboard.WriteAll,
		lookupEnv: os.Getenv,
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func browserCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// OpenURL opens url in the default browser.
func (o *Opener) OpenURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("no URL to open")
	}
	return o.start(browserCommand(), url)
}

func (o *Opener) editorArgs() ([]string, error) {
	line := strings.TrimSpace(o.Editor)
	if line == "" {
		line = strings.TrimSpace(o.lookupEnv("VISUAL"))
	}
	if line == "" {
		line = strings.TrimSpace(o.lookupEnv("EDITOR"))
	}
	if line == "" {
		return nil, ErrNoEditor
	}
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parse editor %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil, ErrNoEditor
	}
	return args, nil
}

// OpenEditor opens path in the editor.
func (o *Opener) OpenEditor(path string) error {
	args, err := o.editorArgs()
	if err != nil {
		return err
	}
	return o.start(args[0], append(args[1:], path)...)
}

// Copy puts text on the system clipboard.
func (o *Opener) Copy(text string) error {
	if err := o.copyText(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

type workspaceFolder struct {
	Path string `json:"path"`
}

type workspaceFile struct {
	Folders []workspaceFolder `json:"folders"`
}

// WorkspaceFile returns the *.code-workspace file in dir, writing one that
// contains just dir when none exists. When several exist the first in
// lexical order wins.
func WorkspaceFile(dir, name string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.code-workspace"))
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		sort.Strings(matches)
		return matches[0], nil
	}
	if name == "" {
		name = filepath.Base(dir)
	}
	data, err := jsonutil.Encode(workspaceFile{Folders: []workspaceFolder{{Path: "."}}}, "workspace file")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".code-workspace")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write workspace file: %w", err)
	}
	return path, nil
}

// OpenWorkspace opens dir's workspace file in the editor.
func (o *Opener) OpenWorkspace(dir, name string) error {
	path, err := WorkspaceFile(dir, name)
	if err != nil {
		return err
	}
	return o.OpenEditor(path)
}
