package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/pkg/log"
)

//go:embed schema.sql
var schemaSQL string

// FileName is the database file created under the data directory.
const FileName = "lodex.db"

const (
	maxRetries   = 5
	initialWait  = 50 * time.Millisecond
	maxOpenConns = 8
	maxIdleConns = 4
	busyTimeout  = 5000 // milliseconds
)

// DB is a SQLite database holding any number of collections.
type DB struct {
	conn   *sql.DB
	logger log.Logger

	mu    sync.Mutex
	feeds map[string]*catalog.ChangeFeed
}

// Open creates or opens dataDir/lodex.db in WAL mode and applies the schema.
func Open(ctx context.Context, dataDir string, logger log.Logger) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("sqlstore: create data dir: %w", err)
	}
	return OpenDSN(ctx, fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		filepath.Join(dataDir, FileName), busyTimeout), logger)
}

// OpenDSN opens an arbitrary modernc.org/sqlite DSN.
func OpenDSN(ctx context.Context, dsn string, logger log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.Nop()
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(0)

	db := &DB{conn: conn, logger: logger.With(log.Component("sqlstore")), feeds: map[string]*catalog.ChangeFeed{}}
	if err := db.pingWithRetry(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlstore: apply schema: %w", err)
	}
	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error { return db.conn.Close() }

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error { return db.conn.PingContext(ctx) }

// Collection returns the Store for name. Stores of the same name share a
// change feed.
func (db *DB) Collection(name string) (*Store, error) {
	if err := catalog.ValidateCollection(name); err != nil {
		return nil, err
	}
	db.mu.Lock()
	feed, ok := db.feeds[name]
	if !ok {
		feed = catalog.NewChangeFeed()
		db.feeds[name] = feed
	}
	db.mu.Unlock()
	return &Store{db: db, collection: name, feed: feed,
		logger: db.logger.With(log.Str("collection", name))}, nil
}

func (db *DB) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = db.conn.PingContext(ctx); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return fmt.Errorf("sqlstore: ping after %d retries: %w", maxRetries, err)
}

// withTx runs fn in a transaction, retrying when SQLite reports busy.
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	wait := initialWait
	for attempt := 0; ; attempt++ {
		err := db.tryTx(ctx, fn)
		if err == nil || !IsBusyError(err) || attempt == maxRetries-1 {
			return err
		}
		db.logger.Debug("database busy, retrying", log.Int("attempt", attempt+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
}

func (db *DB) tryTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}

// IsBusyError reports whether err is SQLITE_BUSY.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}
