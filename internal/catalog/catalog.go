package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pebblestore "github.com/rzbill/lodex/internal/storage/pebble"
	"github.com/rzbill/lodex/pkg/log"
)

// Catalog is a Pebble-backed Store for one collection.
type Catalog struct {
	db         *pebblestore.DB
	collection string
	logger     log.Logger

	mu    sync.Mutex // serializes writers
	count uint64
	feed  *ChangeFeed
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog logger.
func WithLogger(l log.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open binds a collection in db and loads its item count.
func Open(db *pebblestore.DB, collection string, opts ...Option) (*Catalog, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	c := &Catalog{db: db, collection: collection, logger: log.Nop(), feed: NewChangeFeed()}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(log.Component("catalog"), log.Str("collection", collection))

	raw, err := db.Get(keyCount(collection))
	switch {
	case err == nil:
		c.count = decodeCount(raw)
	case errors.Is(err, pebblestore.ErrNotFound):
	default:
		return nil, fmt.Errorf("catalog: load count: %w", err)
	}
	return c, nil
}

// Collection returns the bound collection name.
func (c *Catalog) Collection() string { return c.collection }

// Forward implements Reader.
func (c *Catalog) Forward(ctx context.Context, q ForwardQuery) ([]Item, error) {
	q, err := ValidateForward(q)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if q.Limit == 0 {
		return []Item{}, nil
	}

	col := NewCollector(filter, q.Offset, q.Limit)
	lower := keyEntryBound(c.collection, q.Lower)
	err = c.db.Scan(ctx, lower, keyEntryEnd(c.collection), false, c.visit(col))
	if err != nil {
		return nil, err
	}
	return col.Items(), nil
}

// Reverse implements Reader.
func (c *Catalog) Reverse(ctx context.Context, q ReverseQuery) ([]Item, error) {
	q, err := ValidateReverse(q)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if q.Limit == 0 || q.Empty() {
		return []Item{}, nil
	}

	upper := keyEntryEnd(c.collection)
	switch {
	case q.UpperID != "":
		upper = keyEntry(c.collection, q.Upper, q.UpperID)
	case q.Upper != "":
		upper = keyEntryBound(c.collection, q.Upper)
	}
	col := NewCollector(filter, 0, q.Limit)
	err = c.db.Scan(ctx, keyEntryBound(c.collection, q.Lower), upper, true, c.visit(col))
	if err != nil {
		return nil, err
	}
	return col.Items(), nil
}

func (c *Catalog) visit(col *Collector) pebblestore.ScanFunc {
	return func(key, value []byte) (bool, error) {
		it, err := decodeItem(value)
		if err != nil {
			c.logger.Warn("skipping unreadable entry", log.Str("key", string(key)), log.Err(err))
			return true, nil
		}
		return col.Add(it), nil
	}
}

// Count implements Reader. Without a filter it reads the stored counter.
func (c *Catalog) Count(ctx context.Context, filter string) (int, error) {
	f, err := CompileFilter(filter)
	if err != nil {
		return 0, err
	}
	if f == nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return int(c.count), nil
	}
	n := 0
	err = c.db.Scan(ctx, keyEntryPrefix(c.collection), keyEntryEnd(c.collection), false, func(_, value []byte) (bool, error) {
		if it, err := decodeItem(value); err == nil && f.Match(it) {
			n++
		}
		return true, nil
	})
	return n, err
}

// Insert upserts items by ID in one atomic batch. An item whose name
// changed moves to its new position.
func (c *Catalog) Insert(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		if err := ValidateItem(it); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.db.NewBatch()
	defer b.Close()

	// names written earlier in this batch, by id
	pending := make(map[string]string, len(items))
	added := uint64(0)
	for _, it := range items {
		prevName, existed := pending[it.ID]
		if !existed {
			raw, err := c.db.Get(keyIdentity(c.collection, it.ID))
			switch {
			case err == nil:
				prevName, existed = string(raw), true
			case errors.Is(err, pebblestore.ErrNotFound):
			default:
				return fmt.Errorf("catalog: lookup %s: %w", it.ID, err)
			}
		}
		if existed && prevName != it.Name {
			if err := b.Delete(keyEntry(c.collection, prevName, it.ID), nil); err != nil {
				return err
			}
		}
		if !existed {
			added++
		}
		val, err := encodeItem(it)
		if err != nil {
			return fmt.Errorf("catalog: encode %s: %w", it.ID, err)
		}
		if err := b.Set(keyEntry(c.collection, it.Name, it.ID), val, nil); err != nil {
			return err
		}
		if err := b.Set(keyIdentity(c.collection, it.ID), []byte(it.Name), nil); err != nil {
			return err
		}
		pending[it.ID] = it.Name
	}
	if err := b.Set(keyCount(c.collection), encodeCount(c.count+added), nil); err != nil {
		return err
	}

	start := time.Now()
	if err := c.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("catalog: commit insert: %w", err)
	}
	c.count += added
	c.logger.Debug("inserted items",
		log.Int("items", len(items)), log.Uint64("added", added), log.Dur("elapsed", time.Since(start)))
	c.feed.Notify()
	return nil
}

// DeleteAll removes every key of the collection.
func (c *Catalog) DeleteAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := keyCollection(c.collection)
	if err := c.db.DeleteRange(ctx, prefix, prefixEnd(prefix)); err != nil {
		return fmt.Errorf("catalog: delete all: %w", err)
	}
	// compact the tombstoned range
	if err := c.db.CompactRange(prefix, prefixEnd(prefix)); err != nil {
		c.logger.Warn("compaction after delete failed", log.Err(err))
	}
	c.logger.Info("deleted all items", log.Uint64("items", c.count))
	c.count = 0
	c.feed.Notify()
	return nil
}

// Changes implements Store.
func (c *Catalog) Changes() <-chan struct{} { return c.feed.Changes() }

// WaitForChange blocks until the next bulk mutation or timeout.
func (c *Catalog) WaitForChange(timeout time.Duration) bool { return c.feed.WaitForChange(timeout) }

var _ Store = (*Catalog)(nil)
