package worktree

import (
	"context"
	"log/slog"
	"strings"
)

// Info is one entry of `git worktree list --porcelain`.
type Info struct {
	Path   string
	HEAD   string
	Branch string // short name; empty when detached
	// Main is set for the first entry, the repository's main checkout.
	Main     bool
	Bare     bool
	Detached bool
}

// ParseList parses porcelain worktree output. Entries are separated by
// blank lines; the final entry may lack a trailing blank line.
func ParseList(out string) []Info {
	var (
		list    []Info
		current Info
	)
	flush := func() {
		if current.Path != "" {
			current.Main = len(list) == 0
			list = append(list, current)
		}
		current = Info{}
	}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.HEAD = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "bare":
			current.Bare = true
		case line == "detached":
			current.Detached = true
		case line == "":
			flush()
		}
	}
	flush()
	return list
}

// List enumerates the repository's worktrees. It never fails: an
// unreadable repository yields an empty list.
func (m *Manager) List(ctx context.Context) []Info {
	out, err := m.git(ctx, m.repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		slog.Debug("worktree list failed", "repo", m.repoRoot, "err", err)
		return nil
	}
	return ParseList(out)
}

// FindByBranch returns the linked worktree that has branch checked out.
func (m *Manager) FindByBranch(ctx context.Context, branch string) (Info, bool) {
	for _, wt := range m.List(ctx) {
		if !wt.Main && wt.Branch == branch {
			return wt, true
		}
	}
	return Info{}, false
}
