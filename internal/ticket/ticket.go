// Package ticket models issue-tracker tickets and the branch naming rule that
// ties a ticket to its worktree.
package ticket

import (
	"regexp"
	"strings"
)

// StateType is the workflow category of a ticket state.
type StateType string

const (
	StateStarted   StateType = "started"
	StateUnstarted StateType = "unstarted"
	StateBacklog   StateType = "backlog"
	StateTriage    StateType = "triage"
	StateOther     StateType = "other"
	// StateOrphaned marks placeholder tickets synthesized for worktrees
	// that match no fetched ticket.
	StateOrphaned StateType = "orphaned"
)

// NormalizeStateType maps a tracker state type onto the known set.
// Anything unrecognized becomes StateOther.
func NormalizeStateType(s string) StateType {
	switch t := StateType(strings.ToLower(strings.TrimSpace(s))); t {
	case StateStarted, StateUnstarted, StateBacklog, StateTriage, StateOrphaned:
		return t
	default:
		return StateOther
	}
}

// State is the named workflow state of a ticket.
type State struct {
	Name string
	Type StateType
}

// Ticket is an immutable snapshot of one assigned issue.
type Ticket struct {
	ID            string // e.g. TEAM-123
	Title         string
	Description   string // markdown; empty when the tracker has none
	URL           string
	Priority      int
	PriorityLabel string
	State         State
	Labels        []string
	ProjectID     string
	ProjectName   string
}

var idPattern = regexp.MustCompile(`([A-Za-z]+)-([0-9]+)`)

// ExtractID returns the first LETTERS-DIGITS substring of branch with the
// letters upper-cased. "feature/team-12-login" yields "TEAM-12".
func ExtractID(branch string) (string, bool) {
	m := idPattern.FindStringSubmatch(branch)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]) + "-" + m[2], true
}

const maxSlugLen = 40

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// BranchName derives the worktree branch for a ticket: prefix, the lower-cased
// ID, then a slug of the title.
func BranchName(t Ticket, prefix string) string {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(t.Title), "-"), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	name := strings.ToLower(t.ID)
	if slug != "" {
		name += "-" + slug
	}
	return prefix + name
}
