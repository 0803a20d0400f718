package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	cfgpkg "github.com/rzbill/lodex/internal/config"
	"github.com/rzbill/lodex/internal/runtime"
	itemsvc "github.com/rzbill/lodex/internal/services/items"
	"github.com/rzbill/lodex/internal/tui"
	logpkg "github.com/rzbill/lodex/pkg/log"
)

// newBrowseCommand constructs the `browse` subcommand.
func newBrowseCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the collection in a bucketed terminal list",
		Long: `Browse opens an interactive list grouped under bucket headers.

By default it reads from a running server over --transport. With --local it
opens the data directory itself, which must not be in use by a server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("browse needs a terminal; use query for scripted reads")
			}
			local, _ := cmd.Flags().GetBool("local")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			cfgPath, _ := cmd.Flags().GetString("config")
			logFile, _ := cmd.Flags().GetString("log-file")
			logLevel, _ := cmd.Flags().GetString("log-level")

			cfg, err := cfgpkg.Load(cfgPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if cmd.Flags().Changed("collection") || cfg.Collection == "" {
				cfg.Collection = o.collection
			}
			alpha, err := cfg.BuildAlphabet()
			if err != nil {
				return err
			}
			logger, closeLog, err := browseLogger(logFile, logLevel)
			if err != nil {
				return err
			}
			defer closeLog()

			session := tui.Config{
				Alphabet: alpha,
				Pager:    cfg.PagerOptions(),
				Logger:   logger,
			}
			if local {
				rt, err := runtime.Open(cmd.Context(), runtime.Options{DataDir: dataDir, Config: cfg, Logger: logger})
				if err != nil {
					return err
				}
				defer rt.Close()
				store, err := rt.DefaultCatalog()
				if err != nil {
					return err
				}
				svc := itemsvc.New(rt, logger)
				session.Port = store
				session.Admin = localAdmin{svc: svc, collection: cfg.Collection}
				session.Watch = func(ctx context.Context, fn func()) error { return svc.Watch(ctx, cfg.Collection, fn) }
				session.Title = fmt.Sprintf("lodex · %s (%s)", cfg.Collection, rt.Backend())
			} else {
				o.collection = cfg.Collection
				t, err := openTransport(o)
				if err != nil {
					return err
				}
				defer func() { _ = t.Close() }()
				session.Port = t
				session.Admin = admin(o)
				session.Watch = t.Watch
				session.Title = fmt.Sprintf("lodex · %s @ %s", cfg.Collection, o.transport)
			}
			return tui.Run(cmd.Context(), session)
		},
	}
	cmd.Flags().Bool("local", false, "Open the data directory instead of dialing a server")
	cmd.Flags().String("data-dir", "", "Data directory for --local")
	cmd.Flags().String("config", os.Getenv("LODEX_CONFIG"), "Config file (json or yaml)")
	cmd.Flags().String("log-file", "", "Write logs to this file (the screen is owned by the browser)")
	cmd.Flags().String("log-level", "info", "Log level: debug|info|warn|error")
	return cmd
}

// localAdmin adapts the item service to the browser's Admin.
type localAdmin struct {
	svc        *itemsvc.Service
	collection string
}

func (a localAdmin) Seed(ctx context.Context, count int, seed uint64) (int, error) {
	return a.svc.Seed(ctx, a.collection, count, seed)
}

func (a localAdmin) Clear(ctx context.Context) error { return a.svc.Clear(ctx, a.collection) }

func browseLogger(path, level string) (logpkg.Logger, func(), error) {
	if path == "" {
		return logpkg.Nop(), func() {}, nil
	}
	lvl, err := logpkg.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(lvl),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.WriterOutput{W: f}),
	)
	logpkg.RedirectStdLog(logger)
	return logger, func() { _ = f.Close() }, nil
}
