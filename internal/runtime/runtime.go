package runtime

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/catalog/sqlstore"
	cfgpkg "github.com/rzbill/lodex/internal/config"
	pebblestore "github.com/rzbill/lodex/internal/storage/pebble"
	"github.com/rzbill/lodex/pkg/log"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("runtime: unknown backend")

// ErrClosed is returned after Close.
var ErrClosed = errors.New("runtime: closed")

// Options for building the Runtime.
type Options struct {
	// DataDir overrides Config.DataDir and the platform default.
	DataDir string
	Config  cfgpkg.Config
	Logger  log.Logger
}

// Runtime wires the configured storage backend and hands out one shared
// store per collection.
type Runtime struct {
	config  cfgpkg.Config
	dataDir string
	logger  log.Logger

	pdb *pebblestore.DB
	sdb *sqlstore.DB

	mu     sync.Mutex
	stores map[string]catalog.Store
	closed bool
}

// Open initializes the underlying storage and returns a Runtime.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = opts.Config.ResolvedDataDir()
	}
	rt := &Runtime{
		config:  opts.Config,
		dataDir: dataDir,
		logger:  logger.WithComponent("runtime"),
		stores:  make(map[string]catalog.Store),
	}

	switch opts.Config.Backend {
	case "", cfgpkg.BackendPebble:
		db, err := pebblestore.Open(pebblestore.Options{
			DataDir: filepath.Join(dataDir, "pebble"),
			Fsync:   pebblestore.ParseFsyncMode(opts.Config.Fsync),
		})
		if err != nil {
			return nil, fmt.Errorf("runtime: open pebble: %w", err)
		}
		rt.pdb = db
	case cfgpkg.BackendSQLite:
		db, err := sqlstore.Open(ctx, dataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("runtime: open sqlite: %w", err)
		}
		rt.sdb = db
	case cfgpkg.BackendMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Config.Backend)
	}
	rt.logger.Info("runtime opened", log.Str("backend", rt.Backend()), log.Str("data_dir", dataDir))
	return rt, nil
}

// Backend names the active backend.
func (r *Runtime) Backend() string {
	switch {
	case r.pdb != nil:
		return cfgpkg.BackendPebble
	case r.sdb != nil:
		return cfgpkg.BackendSQLite
	}
	return cfgpkg.BackendMemory
}

// Catalog returns the store for collection, opening it on first use. Every
// caller for the same collection shares one store and one change feed.
func (r *Runtime) Catalog(collection string) (catalog.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if s, ok := r.stores[collection]; ok {
		return s, nil
	}
	if err := catalog.ValidateCollection(collection); err != nil {
		return nil, err
	}

	var (
		s   catalog.Store
		err error
	)
	switch {
	case r.pdb != nil:
		s, err = catalog.Open(r.pdb, collection, catalog.WithLogger(r.logger))
	case r.sdb != nil:
		s, err = r.sdb.Collection(collection)
	default:
		s = catalog.NewMemory()
	}
	if err != nil {
		return nil, err
	}
	r.stores[collection] = s
	return s, nil
}

// DefaultCatalog returns the store of the configured collection.
func (r *Runtime) DefaultCatalog() (catalog.Store, error) {
	name := r.config.Collection
	if name == "" {
		name = "default"
	}
	return r.Catalog(name)
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}
	switch {
	case r.pdb != nil:
		it, err := r.pdb.NewIter(nil)
		if err != nil {
			return err
		}
		return it.Close()
	case r.sdb != nil:
		return r.sdb.Ping(ctx)
	}
	return nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.stores = nil
	switch {
	case r.pdb != nil:
		return r.pdb.Close()
	case r.sdb != nil:
		return r.sdb.Close()
	}
	return nil
}

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// DataDir returns the resolved data directory.
func (r *Runtime) DataDir() string { return r.dataDir }
