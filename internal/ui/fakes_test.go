package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ticketdash/internal/agent"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/pr"
	"ticketdash/internal/session"
	"ticketdash/internal/ticket"
)

type fakeLoader struct {
	data  dashboard.Data
	err   error
	calls int
}

func (f *fakeLoader) Load(context.Context) (dashboard.Data, error) {
	f.calls++
	return f.data, f.err
}

type fakeWorktrees struct {
	created   []string
	removed   []string
	forced    bool
	deleted   []string
	staged    []string
	commits   []string
	pushes    []string
	status    string
	commitErr error
	pushErr   error
}

func (f *fakeWorktrees) Create(_ context.Context, branch, base string) (string, error) {
	f.created = append(f.created, branch+"@"+base)
	return "/wt/" + branch, nil
}

func (f *fakeWorktrees) Remove(_ context.Context, branch string, force bool) error {
	f.removed = append(f.removed, branch)
	f.forced = force
	return nil
}

func (f *fakeWorktrees) DeleteBranch(_ context.Context, branch string) error {
	f.deleted = append(f.deleted, branch)
	return nil
}

func (f *fakeWorktrees) DefaultBranch(context.Context) (string, error) { return "origin/main", nil }
func (f *fakeWorktrees) FetchLatest(context.Context) error             { return nil }

func (f *fakeWorktrees) StageAll(_ context.Context, path string) error {
	f.staged = append(f.staged, path)
	return nil
}

func (f *fakeWorktrees) Status(context.Context, string) string { return f.status }

func (f *fakeWorktrees) Commit(_ context.Context, path, message string) error {
	f.commits = append(f.commits, message)
	return f.commitErr
}

func (f *fakeWorktrees) Push(_ context.Context, path, branch string) error {
	f.pushes = append(f.pushes, branch)
	return f.pushErr
}

func (f *fakeWorktrees) Summary(context.Context, string, string) (string, string) {
	return "abc123 work", " 1 file changed"
}

type fakePRs struct {
	created []pr.CreateOptions
	cleared int
}

func (f *fakePRs) Create(_ context.Context, opts pr.CreateOptions) (string, error) {
	f.created = append(f.created, opts)
	if opts.Web {
		return "", nil
	}
	return "https://github.com/o/r/pull/7", nil
}

func (f *fakePRs) ClearCache() { f.cleared++ }

type fakeAgent struct {
	launched []agent.Request
	focused  []string
	sent     []string
	closed   []string
}

func (f *fakeAgent) Launch(_ context.Context, req agent.Request) (string, error) {
	f.launched = append(f.launched, req)
	return "@9", nil
}

func (f *fakeAgent) Focus(id string) error {
	f.focused = append(f.focused, id)
	return nil
}

func (f *fakeAgent) Send(id, prompt string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeAgent) Close(id string) error {
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeAgent) SynthesizePRBody(_ context.Context, _ string, t ticket.Ticket, _, _ string) (string, string, error) {
	return agent.PRTitle(t), "body", nil
}

type fakeSessions struct {
	records map[string]session.Record
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{records: map[string]session.Record{}}
}

func (f *fakeSessions) Get(branch string) (session.Record, bool) {
	r, ok := f.records[branch]
	return r, ok
}

func (f *fakeSessions) Put(branch string, rec session.Record) error {
	f.records[branch] = rec
	return nil
}

func (f *fakeSessions) Update(branch string, fn func(*session.Record)) error {
	r := f.records[branch]
	fn(&r)
	f.records[branch] = r
	return nil
}

func (f *fakeSessions) Delete(branch string) error {
	delete(f.records, branch)
	return nil
}

type fakeOpener struct {
	urls   []string
	copied []string
}

func (f *fakeOpener) OpenURL(url string) error {
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakeOpener) OpenEditor(string) error            { return nil }
func (f *fakeOpener) OpenWorkspace(string, string) error { return nil }

func (f *fakeOpener) Copy(text string) error {
	f.copied = append(f.copied, text)
	return nil
}

type harness struct {
	m         *Model
	loader    *fakeLoader
	worktrees *fakeWorktrees
	prs       *fakePRs
	agent     *fakeAgent
	sessions  *fakeSessions
	opener    *fakeOpener
}

func tk(id, title string) ticket.Ticket {
	return ticket.Ticket{
		ID:          id,
		Title:       title,
		URL:         "https://linear.app/t/" + id,
		ProjectName: "Platform",
		State:       ticket.State{Name: "In Progress", Type: ticket.StateStarted},
	}
}

func withWorktree(is dashboard.Issue, dirty bool) dashboard.Issue {
	is.Worktree = &dashboard.Worktree{
		Path:       "/wt/" + is.ID(),
		Branch:     "feature/" + is.ID(),
		BaseBranch: "origin/main",
		Dirty:      dirty,
	}
	if dirty {
		is.Worktree.Status = " M main.go"
	}
	return is
}

// newHarness returns a 100x30 model showing issues.
func newHarness(t *testing.T, initScript string, issues ...dashboard.Issue) *harness {
	t.Helper()
	groups := dashboard.Group(issues, nil)
	h := &harness{
		loader:    &fakeLoader{data: dashboard.Data{Groups: groups, Flat: dashboard.Flatten(groups)}},
		worktrees: &fakeWorktrees{status: " M main.go"},
		prs:       &fakePRs{},
		agent:     &fakeAgent{},
		sessions:  newFakeSessions(),
		opener:    &fakeOpener{},
	}
	h.m = New(context.Background(), Deps{
		Loader:     h.loader,
		Worktrees:  h.worktrees,
		PRs:        h.prs,
		Agent:      h.agent,
		Sessions:   h.sessions,
		Opener:     h.opener,
		InitScript: initScript,
		RunScript: func(_ context.Context, _, _ string, emit func(string)) error {
			emit("installing")
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(h.m.refresh())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) press(k string) tea.Cmd {
	return h.send(keyMsg(k))
}

// run executes cmd and feeds its message back. Only use it on commands
// that do not sleep.
func (h *harness) run(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var next []tea.Cmd
		for _, c := range batch {
			next = append(next, h.run(c))
		}
		return tea.Batch(next...)
	}
	return h.send(msg)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sessionRecord(id, window string) session.Record {
	return session.Record{SessionID: id, WindowID: window}
}
