// Package ui is the dashboard's Bubble Tea program: it routes keys and
// mouse reports to dashboard actions, runs the workflows as commands and
// renders the panes and overlays.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/dashboard"
	"ticketdash/internal/mouse"
)

const (
	messageTTL        = 4 * time.Second
	launchRefresh     = 3 * time.Second
	commitCloseDelay  = 2 * time.Second
	detailScrollStep  = 3
	defaultRefreshDur = 30 * time.Second
)

// Model is the root tea.Model.
type Model struct {
	ctx   context.Context
	deps  Deps
	keys  KeyMap
	help  help.Model
	spin  spinner.Model
	input textinput.Model

	state dashboard.State

	width, height int
	// split is the list pane width. Drag state lives here rather than in
	// dashboard.State: it is presentation only.
	split    int
	dragging bool
	showHelp bool

	// staging is set while the commit workflow's stage-all runs.
	staging bool
	md      markdownCache
}

// New returns the dashboard model. ctx bounds every command it runs.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Refresh <= 0 {
		deps.Refresh = defaultRefreshDur
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight))

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return &Model{
		ctx:   ctx,
		deps:  deps,
		keys:  DefaultKeyMap(),
		help:  newHelp(),
		spin:  s,
		input: ti,
		state: dashboard.Initial(),
	}
}

// State returns the current dashboard state.
func (m *Model) State() dashboard.State { return m.state }

func (m *Model) dispatch(a dashboard.Action) {
	m.state = dashboard.Reduce(m.state, a)
}

// Init starts the first load, the refresh timer and the watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tickCmd(m.deps.Refresh), m.spin.Tick, watchCmd(m.deps.Watch))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.split == 0 {
			m.split = defaultSplit(msg.Width)
		} else {
			m.split = clampSplit(m.split, msg.Width)
		}
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case MouseMsg:
		return m, m.handleMouse(mouse.Event(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(m.refresh(), tickCmd(m.deps.Refresh))

	case delayedRefreshMsg:
		return m, m.refresh()

	case worktreesChangedMsg:
		return m, tea.Batch(m.refresh(), watchCmd(m.deps.Watch))

	case dataLoadedMsg:
		m.handleData(msg)
		return m, nil

	case clearMessageMsg:
		m.dispatch(dashboard.SetActionMessage{Expire: msg.id})
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			return m, m.notify(msg.err.Error(), true)
		}
		if msg.text != "" {
			return m, m.notify(msg.text, false)
		}
		return m, nil
	}
	return m, m.handleWorkflowMsg(msg)
}

// refresh starts a load tagged with a new generation.
func (m *Model) refresh() tea.Cmd {
	m.dispatch(dashboard.RefreshStart{})
	return loadCmd(m.ctx, m.deps.Loader, m.state.RefreshGen)
}

func (m *Model) handleData(msg dataLoadedMsg) {
	if msg.err != nil {
		m.dispatch(dashboard.SetError{Err: msg.err.Error(), Gen: msg.gen})
		return
	}
	m.dispatch(dashboard.SetData{Data: msg.data, Gen: msg.gen, At: msg.at})
	m.ensureVisible()
}

// notify shows a transient action message.
func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.dispatch(dashboard.SetActionMessage{Text: text, IsError: isErr})
	return clearMessageCmd(m.state.ActionID, messageTTL)
}

func (m *Model) selectIndex(i int) {
	if len(m.state.Flat) == 0 {
		return
	}
	m.dispatch(dashboard.Select{Index: i})
	m.ensureVisible()
}

// scrollDetail moves the detail pane by delta lines, never above the top nor
// past the last screenful of the selected issue's content.
func (m *Model) scrollDetail(delta int) {
	limit := m.detailMaxScroll()
	offset := max(0, min(m.state.DetailScroll, limit)+delta)
	m.dispatch(dashboard.ScrollDetail{Offset: min(offset, limit)})
}

// busy reports whether a create or delete is running for id.
func (m *Model) busy(id string) bool {
	return m.state.CreatingFor == id || m.state.DeletingFor == id
}
