package dashboard

import (
	"regexp"
	"strings"

	"ticketdash/internal/ticket"
)

var leadingID = regexp.MustCompile(`^[A-Za-z]+-[0-9]+[-_/ ]*`)

// OrphanTitle derives a title from a branch: a leading "prefix/" segment
// and a leading ticket ID are removed. "fix/PROJ-9-typo" gives "typo". When
// nothing remains the ID is the title.
func OrphanTitle(branch, id string) string {
	rest := branch
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.TrimSpace(leadingID.ReplaceAllString(rest, ""))
	if rest == "" {
		return id
	}
	return rest
}

// OrphanTicket is the placeholder ticket for a worktree whose ID matched no
// assigned ticket.
func OrphanTicket(id, branch string) ticket.Ticket {
	return ticket.Ticket{
		ID:    id,
		Title: OrphanTitle(branch, id),
		State: ticket.State{Name: OrphanedStatus, Type: ticket.StateOrphaned},
	}
}
