package dashboard

import "ticketdash/internal/ticket"

func tk(id, project, stateName string, st ticket.StateType) ticket.Ticket {
	return ticket.Ticket{
		ID:          id,
		Title:       "title " + id,
		ProjectName: project,
		State:       ticket.State{Name: stateName, Type: st},
	}
}

func issue(id, project, stateName string, st ticket.StateType) Issue {
	return Issue{Ticket: tk(id, project, stateName, st)}
}

func ids(flat []Issue) []string {
	out := make([]string, len(flat))
	for i, is := range flat {
		out[i] = is.Ticket.ID
	}
	return out
}

// sampleGroups has two projects, three status groups and an orphan group.
func sampleGroups() []ProjectGroup {
	return Group([]Issue{
		issue("A-1", "Alpha", "Todo", ticket.StateUnstarted),
		issue("A-2", "Alpha", "In Progress", ticket.StateStarted),
		issue("B-1", "Beta", "Todo", ticket.StateUnstarted),
		issue("A-3", "Alpha", "Todo", ticket.StateUnstarted),
	}, []Issue{{Ticket: OrphanTicket("X-9", "fix/X-9-typo")}})
}
