package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"ticketdash/internal/pr"
	"ticketdash/internal/session"
	"ticketdash/internal/telemetry"
	"ticketdash/internal/ticket"
	"ticketdash/internal/worktree"
)

// TicketSource lists the tickets assigned to the current user.
type TicketSource interface {
	FetchAssigned(ctx context.Context) ([]ticket.Ticket, error)
}

// WorktreeSource inspects local worktrees. None of its methods fail: an
// unreadable worktree reports empty status and zero commits ahead.
type WorktreeSource interface {
	List(ctx context.Context) []worktree.Info
	Status(ctx context.Context, path string) string
	CommitsAhead(ctx context.Context, path, base string) int
	BaseBranch(ctx context.Context, branch string) string
}

// PRSource reads pull requests. Info returns nil, nil when the branch has
// no pull request.
type PRSource interface {
	Info(ctx context.Context, branch string) (*pr.PullRequest, error)
	Checks(ctx context.Context, number int) ([]pr.Check, error)
	Reviews(ctx context.Context, number int) ([]pr.Review, error)
}

// Sessions reports persisted agent sessions.
type Sessions interface {
	Get(branch string) (session.Record, bool)
	LiveWindows() map[string]bool
}

// Loader aggregates tickets, worktrees and pull requests for one
// repository. Sessions may be nil.
type Loader struct {
	Tickets   TicketSource
	Worktrees WorktreeSource
	PRs       PRSource
	Sessions  Sessions
}

// Load fetches everything and groups it. Only a ticket-source failure is an
// error; every other lookup degrades to a zero value.
func (l *Loader) Load(ctx context.Context) (data Data, err error) {
	ctx, span := telemetry.Start(ctx, "dashboard.load")
	defer func() { telemetry.End(span, err) }()

	var (
		wg        sync.WaitGroup
		tickets   []ticket.Ticket
		fetchErr  error
		worktrees []worktree.Info
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		tickets, fetchErr = l.Tickets.FetchAssigned(ctx)
	}()
	go func() {
		defer wg.Done()
		worktrees = l.Worktrees.List(ctx)
	}()
	wg.Wait()
	if fetchErr != nil {
		return Data{}, fmt.Errorf("fetch assigned tickets: %w", fetchErr)
	}

	byID, ids := matchable(worktrees)

	live := map[string]bool{}
	if l.Sessions != nil {
		live = l.Sessions.LiveWindows()
	}

	issues := make([]Issue, len(tickets))
	matched := make(map[string]bool, len(tickets))
	for i, t := range tickets {
		issues[i].Ticket = t
		if _, ok := byID[t.ID]; ok {
			matched[t.ID] = true
		}
	}
	var orphans []Issue
	for _, id := range ids {
		if !matched[id] {
			orphans = append(orphans, Issue{Ticket: OrphanTicket(id, byID[id].Branch)})
		}
	}

	for _, list := range [][]Issue{issues, orphans} {
		for i := range list {
			wt, ok := byID[list[i].Ticket.ID]
			if !ok {
				continue
			}
			wg.Add(1)
			go func(is *Issue) {
				defer wg.Done()
				l.enrich(ctx, is, wt, live)
			}(&list[i])
		}
	}
	wg.Wait()

	span.SetAttributes(
		attribute.Int("tickets", len(tickets)),
		attribute.Int("worktrees", len(byID)),
		attribute.Int("orphans", len(orphans)),
	)

	groups := Group(issues, orphans)
	return Data{Groups: groups, Flat: Flatten(groups)}, nil
}

// matchable indexes worktrees by the ticket ID in their branch. The main
// checkout, bare and detached worktrees, and branches without an ID are
// skipped; the first worktree for an ID wins. ids keeps listing order.
func matchable(worktrees []worktree.Info) (byID map[string]worktree.Info, ids []string) {
	byID = make(map[string]worktree.Info)
	for _, wt := range worktrees {
		if wt.Main || wt.Bare || wt.Detached || wt.Branch == "" {
			continue
		}
		id, ok := ticket.ExtractID(wt.Branch)
		if !ok {
			slog.Debug("worktree branch has no ticket id", "branch", wt.Branch)
			continue
		}
		if _, dup := byID[id]; dup {
			slog.Debug("duplicate worktree for ticket", "id", id, "branch", wt.Branch)
			continue
		}
		byID[id] = wt
		ids = append(ids, id)
	}
	return byID, ids
}

func (l *Loader) enrich(ctx context.Context, is *Issue, wt worktree.Info, live map[string]bool) {
	w := &Worktree{Path: wt.Path, Branch: wt.Branch}
	w.BaseBranch = l.Worktrees.BaseBranch(ctx, wt.Branch)

	var wg sync.WaitGroup
	var p *pr.PullRequest
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.Status = l.Worktrees.Status(ctx, wt.Path)
	}()
	go func() {
		defer wg.Done()
		w.Ahead = l.Worktrees.CommitsAhead(ctx, wt.Path, w.BaseBranch)
	}()
	if l.PRs != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := l.PRs.Info(ctx, wt.Branch)
			if err != nil {
				slog.Debug("pr info", "branch", wt.Branch, "err", err)
				return
			}
			p = info
		}()
	}
	wg.Wait()

	w.Dirty = strings.TrimSpace(w.Status) != ""
	if l.Sessions != nil {
		if rec, ok := l.Sessions.Get(wt.Branch); ok {
			w.SessionID = rec.SessionID
			w.SessionLive = rec.WindowID != "" && live[rec.WindowID]
		}
	}
	is.Worktree = w
	is.PR = p
	if p == nil {
		return
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		checks, err := l.PRs.Checks(ctx, p.Number)
		if err != nil {
			slog.Debug("pr checks", "number", p.Number, "err", err)
			return
		}
		if checks == nil {
			checks = []pr.Check{}
		}
		is.Checks = checks
	}()
	go func() {
		defer wg.Done()
		reviews, err := l.PRs.Reviews(ctx, p.Number)
		if err != nil {
			slog.Debug("pr reviews", "number", p.Number, "err", err)
			return
		}
		if reviews == nil {
			reviews = []pr.Review{}
		}
		is.Reviews = reviews
	}()
	wg.Wait()
}
