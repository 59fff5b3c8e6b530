package dashboard

import (
	"sort"

	"ticketdash/internal/ticket"
)

var statusRank = map[ticket.StateType]int{
	ticket.StateStarted:   0,
	ticket.StateUnstarted: 1,
	ticket.StateBacklog:   2,
	ticket.StateTriage:    3,
	ticket.StateOther:     4,
}

func rank(t ticket.StateType) int {
	if r, ok := statusRank[t]; ok {
		return r
	}
	return len(statusRank)
}

// Group arranges issues by project (first-seen order, NoProject when
// unset) and then by state name, ordering status groups by state type
// with first-seen order breaking ties. Orphans form a final project with a
// single status group, present only when there are orphans.
func Group(issues, orphans []Issue) []ProjectGroup {
	var groups []ProjectGroup
	projectIdx := map[string]int{}
	statusIdx := map[string]map[string]int{}

	for _, is := range issues {
		project := is.Ticket.ProjectName
		if project == "" {
			project = NoProject
		}
		pi, ok := projectIdx[project]
		if !ok {
			pi = len(groups)
			projectIdx[project] = pi
			statusIdx[project] = map[string]int{}
			groups = append(groups, ProjectGroup{Name: project})
		}
		name := is.Ticket.State.Name
		si, ok := statusIdx[project][name]
		if !ok {
			si = len(groups[pi].Statuses)
			statusIdx[project][name] = si
			groups[pi].Statuses = append(groups[pi].Statuses, StatusGroup{Name: name, Type: is.Ticket.State.Type})
		}
		groups[pi].Statuses[si].Issues = append(groups[pi].Statuses[si].Issues, is)
	}

	for i := range groups {
		statuses := groups[i].Statuses
		sort.SliceStable(statuses, func(a, b int) bool {
			return rank(statuses[a].Type) < rank(statuses[b].Type)
		})
	}

	if len(orphans) > 0 {
		groups = append(groups, ProjectGroup{
			Name: OrphanedProject,
			Statuses: []StatusGroup{{
				Name:   OrphanedStatus,
				Type:   ticket.StateOrphaned,
				Issues: orphans,
			}},
		})
	}
	return groups
}

// Flatten lists the issues of groups in display order.
func Flatten(groups []ProjectGroup) []Issue {
	var flat []Issue
	for _, g := range groups {
		for _, s := range g.Statuses {
			flat = append(flat, s.Issues...)
		}
	}
	return flat
}
