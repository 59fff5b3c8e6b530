package agent

import (
	"fmt"
	"strings"

	"ticketdash/internal/pr"
	"ticketdash/internal/ticket"
)

// PRTitle is the pull request title for t.
func PRTitle(t ticket.Ticket) string {
	return fmt.Sprintf("[%s] %s", t.ID, t.Title)
}

func writeTicket(b *strings.Builder, t ticket.Ticket) {
	fmt.Fprintf(b, "Ticket %s: %s\n", t.ID, t.Title)
	if t.URL != "" {
		fmt.Fprintf(b, "URL: %s\n", t.URL)
	}
	if len(t.Labels) > 0 {
		fmt.Fprintf(b, "Labels: %s\n", strings.Join(t.Labels, ", "))
	}
	if d := strings.TrimSpace(t.Description); d != "" {
		b.WriteString("\nDescription:\n")
		b.WriteString(d)
		b.WriteString("\n")
	}
}

// WorkPrompt starts a session on t.
func WorkPrompt(t ticket.Ticket, mode Mode) string {
	var b strings.Builder
	writeTicket(&b, t)
	b.WriteString("\n")
	if mode == ModePlan {
		b.WriteString("Read the relevant code and propose an implementation plan before changing anything.\n")
	} else {
		b.WriteString("Implement this ticket in the current worktree.\n")
	}
	fmt.Fprintf(&b, "Prefix commit messages with [%s].\n", t.ID)
	return b.String()
}

// ReviewPrompt asks for a review of p.
func ReviewPrompt(t ticket.Ticket, p *pr.PullRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review pull request #%d (%s).\n\n", p.Number, p.URL)
	writeTicket(&b, t)
	b.WriteString("\nCheck the diff against the ticket, point out bugs, missing tests and risky changes. Do not push.\n")
	return b.String()
}

// FixPrompt asks the agent to address failing checks and review feedback.
func FixPrompt(t ticket.Ticket, p *pr.PullRequest, checks []pr.Check, reviews []pr.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fix pull request #%d (%s) for %s.\n", p.Number, p.URL, t.ID)

	var failing []pr.Check
	for _, c := range checks {
		if c.Bucket == pr.BucketFail {
			failing = append(failing, c)
		}
	}
	if len(failing) > 0 {
		b.WriteString("\nFailing checks:\n")
		for _, c := range failing {
			fmt.Fprintf(&b, "- %s", c.Name)
			if c.Description != "" {
				fmt.Fprintf(&b, ": %s", c.Description)
			}
			if c.Link != "" {
				fmt.Fprintf(&b, " (%s)", c.Link)
			}
			b.WriteString("\n")
		}
	}

	var feedback []pr.Review
	for _, r := range reviews {
		if strings.TrimSpace(r.Body) != "" && r.State != "APPROVED" {
			feedback = append(feedback, r)
		}
	}
	if len(feedback) > 0 {
		b.WriteString("\nReview feedback:\n")
		for _, r := range feedback {
			fmt.Fprintf(&b, "- %s (%s): %s\n", r.Author, r.State, strings.TrimSpace(r.Body))
		}
	}
	if len(failing) == 0 && len(feedback) == 0 {
		b.WriteString("\nNo failing checks or open feedback were found; run the test suite and fix anything broken.\n")
	}
	fmt.Fprintf(&b, "\nCommit fixes with the [%s] prefix.\n", t.ID)
	return b.String()
}

// PRBodyPrompt asks for a pull request description.
func PRBodyPrompt(t ticket.Ticket, log, stat string) string {
	var b strings.Builder
	b.WriteString("Write a concise GitHub pull request description in markdown for the branch below. ")
	b.WriteString("Output only the description, starting with a short summary, then a bullet list of changes.\n\n")
	writeTicket(&b, t)
	if log != "" {
		b.WriteString("\nCommits:\n")
		b.WriteString(log)
		b.WriteString("\n")
	}
	if stat != "" {
		b.WriteString("\nDiffstat:\n")
		b.WriteString(stat)
		b.WriteString("\n")
	}
	return b.String()
}
