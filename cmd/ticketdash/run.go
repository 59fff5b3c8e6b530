package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ticketdash/internal/agent"
	"ticketdash/internal/config"
	"ticketdash/internal/dashboard"
	"ticketdash/internal/logging"
	"ticketdash/internal/mouse"
	"ticketdash/internal/opener"
	"ticketdash/internal/pr"
	"ticketdash/internal/pty"
	"ticketdash/internal/session"
	"ticketdash/internal/telemetry"
	"ticketdash/internal/term"
	"ticketdash/internal/ticket"
	"ticketdash/internal/tmux"
	"ticketdash/internal/ui"
	"ticketdash/internal/worktree"
)

const watchDebounce = 500 * time.Millisecond

type runOptions struct {
	repo   string
	config string
}

func run(ctx context.Context, opts runOptions) (err error) {
	if !tmux.InTmux() {
		return errors.New("run ticketdash inside tmux (e.g. `tmux new -s dev` then `ticketdash`)")
	}

	abs, err := filepath.Abs(opts.repo)
	if err != nil {
		return err
	}
	repoRoot, err := worktree.MainCheckout(abs)
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}
	commonDir, err := worktree.CommonDir(repoRoot)
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	cfg, err := config.Load(repoRoot, opts.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	closeLog, err := logging.Init(cfg.Logging, version)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, version)
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	} else {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	sessions, err := session.Open(filepath.Join(commonDir, "ticketdash"), tmux.ListWindowIDs)
	if err != nil {
		return err
	}
	worktrees, err := worktree.NewManager(repoRoot, worktree.WithDir(cfg.Worktree.Dir), worktree.WithBaseLookup(sessions.BaseBranch))
	if err != nil {
		return err
	}
	prs := pr.NewClient(repoRoot)
	tickets := ticket.NewClient(ticket.ClientOptions{
		Endpoint: cfg.Linear.Endpoint,
		APIKey:   cfg.Linear.APIKey,
		Team:     cfg.Linear.Team,
	})

	watch, err := worktree.Watch(ctx, commonDir, watchDebounce)
	if err != nil {
		slog.Warn("worktree watcher disabled", "err", err)
	}

	model := ui.New(ctx, ui.Deps{
		Loader: &dashboard.Loader{
			Tickets:   tickets,
			Worktrees: worktrees,
			PRs:       prs,
			Sessions:  sessions,
		},
		Worktrees: worktrees,
		PRs:       prs,
		Agent:     agent.NewLauncher(cfg.Agent.Command, cfg.Agent.Args),
		Sessions:  sessions,
		Opener:    opener.New(cfg.Editor),
		RunScript: func(ctx context.Context, dir, script string, emit func(string)) error {
			return pty.RunScript(ctx, &pty.CreackPTY{}, dir, script, emit)
		},
		InitScript:   cfg.InitScript,
		BranchPrefix: cfg.Worktree.BranchPrefix,
		Refresh:      cfg.RefreshInterval(),
		Watch:        watch,
	})

	screen := term.New(os.Stdin.Fd(), os.Stdout)
	if err := screen.Acquire(); err != nil {
		_ = screen.Release()
		return fmt.Errorf("acquire terminal: %w", err)
	}
	defer func() { _ = screen.Release() }()
	defer func() {
		if r := recover(); r != nil {
			_ = screen.Release()
			slog.Error("panic", "value", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	var p *tea.Program
	input := mouse.NewFilter(os.Stdin, func(ev mouse.Event) {
		if p != nil {
			p.Send(ui.MouseMsg(ev))
		}
	})
	p = tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(os.Stdout),
	)

	slog.Info("dashboard started", "repo", repoRoot)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
