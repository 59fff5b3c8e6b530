// Package worktree drives git for the dashboard: listing, creating and
// removing per-ticket worktrees, and the status, commit and push steps the
// workflows run inside them.
package worktree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// BaseLookup reports the base branch recorded for a branch, if any.
type BaseLookup func(branch string) (string, bool)

// Manager manages the worktrees of one main checkout.
type Manager struct {
	repoRoot   string
	dir        string
	baseLookup BaseLookup
}

// Option configures a Manager.
type Option func(*Manager)

// WithDir sets the parent directory for new worktrees.
func WithDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.dir = dir
		}
	}
}

// WithBaseLookup sets where recorded base branches come from.
func WithBaseLookup(fn BaseLookup) Option {
	return func(m *Manager) { m.baseLookup = fn }
}

// NewManager creates a manager for the main checkout at repoRoot.
// New worktrees default to a sibling "<repo>.worktrees" directory.
func NewManager(repoRoot string, opts ...Option) (*Manager, error) {
	info, err := os.Stat(filepath.Join(repoRoot, ".git"))
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is a linked worktree, not the main checkout", repoRoot)
	}
	m := &Manager{
		repoRoot: repoRoot,
		dir:      filepath.Join(filepath.Dir(repoRoot), filepath.Base(repoRoot)+".worktrees"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// RepoRoot returns the main checkout path.
func (m *Manager) RepoRoot() string { return m.repoRoot }

// PathFor returns where the worktree for branch is created.
func (m *Manager) PathFor(branch string) string {
	return filepath.Join(m.dir, strings.ReplaceAll(branch, "/", "-"))
}

// Create adds a worktree for branch, creating the branch from base when it
// does not exist yet. Returns the new worktree path.
func (m *Manager) Create(ctx context.Context, branch, base string) (string, error) {
	path := m.PathFor(branch)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("worktree path already exists: %s", path)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create worktree dir: %w", err)
	}

	noHooks, cleanup, err := withoutHooks()
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := append([]string{}, noHooks...)
	if _, err := m.git(ctx, m.repoRoot, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch); err == nil {
		args = append(args, "worktree", "add", path, branch)
	} else {
		args = append(args, "worktree", "add", "-b", branch, path, base)
	}
	if _, err := m.git(ctx, m.repoRoot, args...); err != nil {
		return "", err
	}
	return path, nil
}

// Remove removes the worktree that has branch checked out. force discards
// uncommitted changes.
func (m *Manager) Remove(ctx context.Context, branch string, force bool) error {
	wt, ok := m.FindByBranch(ctx, branch)
	if !ok {
		return fmt.Errorf("no worktree for branch %s", branch)
	}
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, wt.Path)
	_, err := m.git(ctx, m.repoRoot, args...)
	return err
}

// DeleteBranch force-deletes a local branch.
func (m *Manager) DeleteBranch(ctx context.Context, branch string) error {
	_, err := m.git(ctx, m.repoRoot, "branch", "-D", branch)
	return err
}

// Status returns `git status --porcelain` for path, or "" when the path is
// gone or git fails.
func (m *Manager) Status(ctx context.Context, path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	out, err := m.git(ctx, path, "status", "--porcelain")
	if err != nil {
		slog.Debug("git status failed", "path", path, "err", err)
		return ""
	}
	return strings.TrimRight(out, "\n")
}

// CommitsAhead counts commits on HEAD not reachable from base. Any failure,
// including a missing path, counts as zero.
func (m *Manager) CommitsAhead(ctx context.Context, path, base string) int {
	if _, err := os.Stat(path); err != nil {
		return 0
	}
	out, err := m.git(ctx, path, "rev-list", "--count", base+"..HEAD")
	if err != nil {
		slog.Debug("git rev-list failed", "path", path, "base", base, "err", err)
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0
	}
	return n
}

// DefaultBranch resolves the repository's default branch, preferring the
// remote-tracking ref so new work starts from upstream.
func (m *Manager) DefaultBranch(ctx context.Context) (string, error) {
	if out, err := m.git(ctx, m.repoRoot, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		ref := strings.TrimSpace(out)
		if strings.HasPrefix(ref, "refs/remotes/") {
			return strings.TrimPrefix(ref, "refs/remotes/"), nil
		}
	}
	for _, candidate := range []string{"origin/main", "main", "origin/master", "master"} {
		if exec.CommandContext(ctx, "git", "-C", m.repoRoot, "rev-parse", "--verify", "--quiet", candidate).Run() == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot find default branch (tried origin/HEAD, main, master)")
}

// BaseBranch returns the base recorded for branch, falling back to the
// default branch.
func (m *Manager) BaseBranch(ctx context.Context, branch string) string {
	if m.baseLookup != nil {
		if base, ok := m.baseLookup(branch); ok && base != "" {
			return base
		}
	}
	base, err := m.DefaultBranch(ctx)
	if err != nil {
		return "main"
	}
	return base
}

// FetchLatest fetches the upstream of the default branch. It is a no-op
// when the default branch is local only.
func (m *Manager) FetchLatest(ctx context.Context) error {
	def, err := m.DefaultBranch(ctx)
	if err != nil {
		return err
	}
	remote, branch, ok := strings.Cut(def, "/")
	if !ok {
		return nil
	}
	_, err = m.git(ctx, m.repoRoot, "fetch", remote, branch)
	return err
}

// StageAll stages every change in the worktree.
func (m *Manager) StageAll(ctx context.Context, path string) error {
	_, err := m.git(ctx, path, "add", "-A")
	return err
}

// Commit records the staged changes with message.
func (m *Manager) Commit(ctx context.Context, path, message string) error {
	_, err := m.git(ctx, path, "commit", "-m", message)
	return err
}

// Push pushes HEAD to the branch of the same name on origin and sets it as
// upstream.
func (m *Manager) Push(ctx context.Context, path, branch string) error {
	_, err := m.git(ctx, path, "push", "-u", "origin", "HEAD:refs/heads/"+branch)
	return err
}

// Summary returns the one-line log and diffstat of HEAD against base, used
// to describe a branch in a pull request.
func (m *Manager) Summary(ctx context.Context, path, base string) (log, stat string) {
	log, err := m.git(ctx, path, "log", "--oneline", base+"..HEAD")
	if err != nil {
		slog.Debug("git log failed", "path", path, "err", err)
	}
	stat, err = m.git(ctx, path, "diff", "--stat", base+"...HEAD")
	if err != nil {
		slog.Debug("git diff failed", "path", path, "err", err)
	}
	return strings.TrimSpace(log), strings.TrimSpace(stat)
}
