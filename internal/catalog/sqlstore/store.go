package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/pkg/log"
)

// Store implements catalog.Store for one collection.
type Store struct {
	db         *DB
	collection string
	feed       *catalog.ChangeFeed
	logger     log.Logger
}

const selectCols = `SELECT id, name, created_ms, attrs FROM items `

// Forward implements catalog.Reader. Offset and limit are pushed down to
// SQLite when no filter is set.
func (s *Store) Forward(ctx context.Context, q catalog.ForwardQuery) ([]catalog.Item, error) {
	q, err := catalog.ValidateForward(q)
	if err != nil {
		return nil, err
	}
	filter, err := catalog.CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		return []catalog.Item{}, nil
	}

	if filter == nil {
		rows, err := s.db.conn.QueryContext(ctx,
			selectCols+`WHERE collection = ? AND name >= ? ORDER BY name, id LIMIT ? OFFSET ?`,
			s.collection, q.Lower, q.Limit, q.Offset)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: forward: %w", err)
		}
		col := catalog.NewCollector(nil, 0, q.Limit)
		return s.drain(rows, col)
	}

	rows, err := s.db.conn.QueryContext(ctx,
		selectCols+`WHERE collection = ? AND name >= ? ORDER BY name, id`,
		s.collection, q.Lower)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: forward: %w", err)
	}
	return s.drain(rows, catalog.NewCollector(filter, q.Offset, q.Limit))
}

// Reverse implements catalog.Reader.
func (s *Store) Reverse(ctx context.Context, q catalog.ReverseQuery) ([]catalog.Item, error) {
	q, err := catalog.ValidateReverse(q)
	if err != nil {
		return nil, err
	}
	filter, err := catalog.CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if q.Limit == 0 || q.Empty() {
		return []catalog.Item{}, nil
	}

	query := selectCols + `WHERE collection = ? AND name >= ?`
	args := []any{s.collection, q.Lower}
	switch {
	case q.UpperID != "":
		query += ` AND (name < ? OR (name = ? AND id < ?))`
		args = append(args, q.Upper, q.Upper, q.UpperID)
	case q.Upper != "":
		query += ` AND name < ?`
		args = append(args, q.Upper)
	}
	query += ` ORDER BY name DESC, id DESC`
	if filter == nil {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: reverse: %w", err)
	}
	return s.drain(rows, catalog.NewCollector(filter, 0, q.Limit))
}

func (s *Store) drain(rows *sql.Rows, col *catalog.Collector) ([]catalog.Item, error) {
	defer rows.Close()
	for rows.Next() {
		var (
			it    catalog.Item
			attrs string
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedMs, &attrs); err != nil {
			return nil, fmt.Errorf("sqlstore: scan: %w", err)
		}
		if attrs != "" && attrs != "{}" {
			if err := json.Unmarshal([]byte(attrs), &it.Attrs); err != nil {
				s.logger.Warn("ignoring malformed attrs", log.Str("id", it.ID), log.Err(err))
			}
		}
		if !col.Add(it) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: rows: %w", err)
	}
	return col.Items(), nil
}

// Count implements catalog.Reader.
func (s *Store) Count(ctx context.Context, filter string) (int, error) {
	f, err := catalog.CompileFilter(filter)
	if err != nil {
		return 0, err
	}
	if f == nil {
		var n int
		err := s.db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE collection = ?`, s.collection).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("sqlstore: count: %w", err)
		}
		return n, nil
	}
	rows, err := s.db.conn.QueryContext(ctx, selectCols+`WHERE collection = ?`, s.collection)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: count: %w", err)
	}
	items, err := s.drain(rows, catalog.NewCollector(f, 0, int(^uint(0)>>1)))
	return len(items), err
}

// Insert implements catalog.Store as a single upserting transaction.
func (s *Store) Insert(ctx context.Context, items []catalog.Item) error {
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		if err := catalog.ValidateItem(it); err != nil {
			return err
		}
	}
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (collection, id, name, created_ms, attrs)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (collection, id) DO UPDATE SET
    name = excluded.name, created_ms = excluded.created_ms, attrs = excluded.attrs`)
		if err != nil {
			return fmt.Errorf("sqlstore: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, it := range items {
			attrs := []byte("{}")
			if len(it.Attrs) > 0 {
				if attrs, err = json.Marshal(it.Attrs); err != nil {
					return fmt.Errorf("sqlstore: encode attrs %s: %w", it.ID, err)
				}
			}
			if _, err := stmt.ExecContext(ctx, s.collection, it.ID, it.Name, it.CreatedMs, string(attrs)); err != nil {
				return fmt.Errorf("sqlstore: insert %s: %w", it.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("inserted items", log.Int("items", len(items)))
	s.feed.Notify()
	return nil
}

// DeleteAll implements catalog.Store.
func (s *Store) DeleteAll(ctx context.Context) error {
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE collection = ?`, s.collection)
		if err != nil {
			return fmt.Errorf("sqlstore: delete all: %w", err)
		}
		n, _ := res.RowsAffected()
		s.logger.Info("deleted all items", log.Int64("items", n))
		return nil
	})
	if err != nil {
		return err
	}
	s.feed.Notify()
	return nil
}

// Changes implements catalog.Store.
func (s *Store) Changes() <-chan struct{} { return s.feed.Changes() }

var _ catalog.Store = (*Store)(nil)
