package ui

import (
	"context"
	"time"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/pr"
	"ticketdash/internal/session"
	"ticketdash/internal/ticket"
)

// Loader produces one aggregation of the dashboard data.
type Loader interface {
	Load(ctx context.Context) (dashboard.Data, error)
}

// Worktrees is the git surface the workflows drive.
type Worktrees interface {
	Create(ctx context.Context, branch, base string) (string, error)
	Remove(ctx context.Context, branch string, force bool) error
	DeleteBranch(ctx context.Context, branch string) error
	DefaultBranch(ctx context.Context) (string, error)
	FetchLatest(ctx context.Context) error
	StageAll(ctx context.Context, path string) error
	Status(ctx context.Context, path string) string
	Commit(ctx context.Context, path, message string) error
	Push(ctx context.Context, path, branch string) error
	Summary(ctx context.Context, path, base string) (log, stat string)
}

// PRs creates pull requests.
type PRs interface {
	Create(ctx context.Context, opts pr.CreateOptions) (string, error)
	ClearCache()
}

// Agent opens and drives agent windows.
type Agent interface {
	Launch(ctx context.Context, req agent.Request) (string, error)
	Focus(windowID string) error
	Send(windowID, prompt string) error
	Close(windowID string) error
	SynthesizePRBody(ctx context.Context, dir string, t ticket.Ticket, log, stat string) (title, body string, err error)
}

// Sessions persists agent sessions per branch.
type Sessions interface {
	Get(branch string) (session.Record, bool)
	Put(branch string, rec session.Record) error
	Update(branch string, fn func(*session.Record)) error
	Delete(branch string) error
}

// Opener hands things off to other desktop programs.
type Opener interface {
	OpenURL(url string) error
	OpenEditor(path string) error
	OpenWorkspace(dir, name string) error
	Copy(text string) error
}

// ScriptRunner runs the worktree init script in dir, calling emit for
// every output line.
type ScriptRunner func(ctx context.Context, dir, script string, emit func(line string)) error

// Deps are the dashboard's collaborators and settings.
type Deps struct {
	Loader    Loader
	Worktrees Worktrees
	PRs       PRs
	Agent     Agent
	Sessions  Sessions
	Opener    Opener
	RunScript ScriptRunner

	// InitScript runs in every new worktree when non-empty.
	InitScript   string
	BranchPrefix string
	Refresh      time.Duration
	// Watch signals worktree changes on disk. May be nil.
	Watch <-chan struct{}
}
