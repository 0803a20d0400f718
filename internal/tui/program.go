package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/pager"
	"github.com/rzbill/lodex/pkg/log"
)

// Config wires a browser session.
type Config struct {
	Port     pager.Port
	Alphabet *bucket.Alphabet
	Pager    pager.Options
	Title    string
	Admin    Admin
	// Watch blocks until ctx is done, calling fn after each bulk mutation.
	Watch  func(ctx context.Context, fn func()) error
	Logger log.Logger
	// ProgramOptions are appended to the defaults (alt screen, ctx).
	ProgramOptions []tea.ProgramOption
}

// Run starts an engine over cfg.Port and blocks until the user quits or ctx
// is done.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Port == nil || cfg.Alphabet == nil {
		return errors.New("tui: port and alphabet are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent("tui")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p *tea.Program
	popts := cfg.Pager
	popts.Logger = logger
	popts.Notifier = pager.NotifierFunc(func(ev pager.Event) { p.Send(EventMsg{Event: ev}) })
	eng := pager.New(cfg.Port, cfg.Alphabet, popts)

	m := New(eng, Options{Title: cfg.Title, Counter: cfg.Port, Admin: cfg.Admin})
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, cfg.ProgramOptions...)
	p = tea.NewProgram(m, opts...)

	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Warn("engine stopped", log.Err(err))
		}
	}()
	if cfg.Watch != nil {
		go func() {
			err := cfg.Watch(ctx, func() { p.Send(ChangedMsg{}) })
			if err != nil && ctx.Err() == nil {
				logger.Warn("change watch ended", log.Err(err))
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
