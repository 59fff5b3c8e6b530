package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ticketdash/internal/progress"
)

// loadCmd runs one aggregation for generation gen.
func loadCmd(ctx context.Context, l Loader, gen int) tea.Cmd {
	return func() tea.Msg {
		data, err := l.Load(ctx)
		return dataLoadedMsg{gen: gen, data: data, err: err, at: time.Now()}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func delayedRefreshCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return delayedRefreshMsg{} })
}

func clearMessageCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearMessageMsg{id: id} })
}

// watchCmd waits for the next worktree change. A nil or closed channel
// stops the subscription.
func watchCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return worktreesChangedMsg{}
	}
}

// actionCmd runs fn off the event loop and reports text on success.
func actionCmd(text string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{text: text}
	}
}

// startInitCmd runs the init script in the background and delivers its
// first event. The rest are read with waitForInit.
func startInitCmd(ctx context.Context, run ScriptRunner, script string, target launchTarget) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan progress.Event, 64)
		emitter := &progress.ChanEmitter{Ch: ch}
		go func() {
			emitter.Finish(run(ctx, target.path, script, emitter.Line))
		}()
		return waitForInit(target, ch)()
	}
}

func waitForInit(target launchTarget, ch <-chan progress.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			ev = progress.Event{Status: progress.StatusDone}
		}
		return initOutputMsg{target: target, event: ev, ch: ch}
	}
}
