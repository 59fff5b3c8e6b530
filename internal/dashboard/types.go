// Package dashboard is the dashboard's core: the aggregated view model, the
// pure reducer that owns all dashboard state, and the row arithmetic that
// maps list rows to issues.
package dashboard

import (
	"ticketdash/internal/pr"
	"ticketdash/internal/ticket"
)

// Group names.
const (
	NoProject       = "No Project"
	OrphanedProject = "Orphaned Worktrees"
	OrphanedStatus  = "Orphaned"
)

// Worktree is a local checkout matched to a ticket.
type Worktree struct {
	Path       string
	Branch     string
	BaseBranch string
	// Dirty is true when Status is non-empty.
	Dirty bool
	// Ahead is the number of commits on the branch not on BaseBranch.
	Ahead       int
	SessionID   string
	SessionLive bool
	// Status is `git status --porcelain` output.
	Status string
}

// Issue is the unit the dashboard lists, selects and acts on.
type Issue struct {
	Ticket   ticket.Ticket
	Worktree *Worktree
	PR       *pr.PullRequest
	// Checks and Reviews are nil when unknown or not applicable (no PR),
	// and non-nil (possibly empty) once fetched.
	Checks  []pr.Check
	Reviews []pr.Review
}

// ID is the ticket identifier.
func (i Issue) ID() string { return i.Ticket.ID }

// Orphaned reports whether the issue is a placeholder for a worktree with
// no assigned ticket.
func (i Issue) Orphaned() bool { return i.Ticket.State.Type == ticket.StateOrphaned }

// StatusGroup is the issues of one project that share a state.
type StatusGroup struct {
	Name   string
	Type   ticket.StateType
	Issues []Issue
}

// ProjectGroup is one project's status groups, in display order.
type ProjectGroup struct {
	Name     string
	Statuses []StatusGroup
}

// Data is one aggregation result. Flat lists the issues of Groups in
// display order; indexes into it are the selection space.
type Data struct {
	Groups []ProjectGroup
	Flat   []Issue
}
