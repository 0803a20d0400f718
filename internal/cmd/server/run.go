package serverrun

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cfgpkg "github.com/rzbill/lodex/internal/config"
	"github.com/rzbill/lodex/internal/runtime"
	grpcserver "github.com/rzbill/lodex/internal/server/grpc"
	httpserver "github.com/rzbill/lodex/internal/server/http"
	logpkg "github.com/rzbill/lodex/pkg/log"
)

type Options struct {
	DataDir string
	// GRPCAddr and HTTPAddr select the listeners; an empty address disables one.
	GRPCAddr string
	HTTPAddr string
	Config   cfgpkg.Config
	Logger   logpkg.Logger
}

// ProcessLogger builds the process-wide logger from cfg, falling back to
// info/text when the configuration is invalid.
func ProcessLogger(cfg logpkg.Config) logpkg.Logger {
	l, err := logpkg.ApplyConfig(&cfg)
	if err == nil {
		return l
	}
	lvl := logpkg.InfoLevel
	if parsed, e := logpkg.ParseLevel(cfg.Level); e == nil {
		lvl = parsed
	}
	l = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	l.Warn("invalid log config, using defaults", logpkg.Err(err))
	return l
}

// Run starts the configured gRPC and HTTP servers and blocks until ctx is
// cancelled or a listener fails.
func Run(ctx context.Context, opts Options) error {
	if opts.GRPCAddr == "" && opts.HTTPAddr == "" {
		return errors.New("serverrun: no listener configured")
	}
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := opts.Logger
	if logger == nil {
		logger = ProcessLogger(opts.Config.Log)
		logpkg.RedirectStdLog(logger)
	}

	rt, err := runtime.Open(sctx, runtime.Options{DataDir: opts.DataDir, Config: opts.Config, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()
	if _, err := rt.DefaultCatalog(); err != nil {
		return err
	}

	logger.Info("starting lodex server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("backend", rt.Backend()),
		logpkg.Str("data_dir", rt.DataDir()),
		logpkg.Str("collection", opts.Config.Collection),
	)

	lctx, cancel := context.WithCancel(sctx)
	defer cancel()
	errCh := make(chan error, 2)
	var wg sync.WaitGroup
	var closers []func()

	if opts.GRPCAddr != "" {
		gsrv := grpcserver.New(rt, logger)
		closers = append(closers, gsrv.Close)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gsrv.ListenAndServe(lctx, opts.GRPCAddr); err != nil && lctx.Err() == nil {
				logger.Error("grpc server failed", logpkg.Err(err))
				errCh <- err
			}
		}()
	}
	if opts.HTTPAddr != "" {
		hsrv := httpserver.New(rt, logger)
		closers = append(closers, hsrv.Close)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := hsrv.ListenAndServe(lctx, opts.HTTPAddr); err != nil && lctx.Err() == nil {
				logger.Error("http server failed", logpkg.Err(err))
				errCh <- err
			}
		}()
	}

	var runErr error
	select {
	case <-sctx.Done():
	case runErr = <-errCh:
	}
	// stop listeners before the runtime closes the store
	cancel()
	for _, c := range closers {
		c()
	}
	wg.Wait()
	logger.Info("lodex server stopped")
	return runErr
}
