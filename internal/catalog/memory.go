package catalog

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store kept as a sorted slice. It backs the
// "memory" runtime backend and engine tests.
type Memory struct {
	mu    sync.RWMutex
	items []Item
	feed  *ChangeFeed
}

// NewMemory returns an empty store holding items.
func NewMemory(items ...Item) *Memory {
	m := &Memory{feed: NewChangeFeed()}
	m.items = m.upsert(nil, items)
	return m
}

// seek returns the index of the first item with Name >= name.
func (m *Memory) seek(name string) int {
	return sort.Search(len(m.items), func(i int) bool { return m.items[i].Name >= name })
}

// seekAt returns the index of the first item at or after (name, id).
func (m *Memory) seekAt(name, id string) int {
	at := Item{Name: name, ID: id}
	return sort.Search(len(m.items), func(i int) bool { return !Less(m.items[i], at) })
}

// Forward implements Reader.
func (m *Memory) Forward(ctx context.Context, q ForwardQuery) ([]Item, error) {
	q, err := ValidateForward(q)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	col := NewCollector(filter, q.Offset, q.Limit)
	for i := m.seek(q.Lower); i < len(m.items) && col.Add(m.items[i]); i++ {
	}
	return col.Items(), nil
}

// Reverse implements Reader.
func (m *Memory) Reverse(ctx context.Context, q ReverseQuery) ([]Item, error) {
	q, err := ValidateReverse(q)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Empty() {
		return []Item{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	end := len(m.items)
	if q.Bounded() {
		end = m.seekAt(q.Upper, q.UpperID)
	}
	floor := m.seek(q.Lower)
	col := NewCollector(filter, 0, q.Limit)
	for i := end - 1; i >= floor && col.Add(m.items[i]); i-- {
	}
	return col.Items(), nil
}

// Count implements Reader.
func (m *Memory) Count(ctx context.Context, filter string) (int, error) {
	f, err := CompileFilter(filter)
	if err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f == nil {
		return len(m.items), nil
	}
	n := 0
	for _, it := range m.items {
		if f.Match(it) {
			n++
		}
	}
	return n, nil
}

// Insert implements Store.
func (m *Memory) Insert(_ context.Context, items []Item) error {
	for _, it := range items {
		if err := ValidateItem(it); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.items = m.upsert(m.items, items)
	m.mu.Unlock()
	m.feed.Notify()
	return nil
}

func (m *Memory) upsert(cur, items []Item) []Item {
	byID := make(map[string]int, len(cur))
	for i, it := range cur {
		byID[it.ID] = i
	}
	out := append([]Item(nil), cur...)
	for _, it := range items {
		if i, ok := byID[it.ID]; ok {
			out[i] = it
			continue
		}
		byID[it.ID] = len(out)
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// DeleteAll implements Store.
func (m *Memory) DeleteAll(context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
	m.feed.Notify()
	return nil
}

// Changes implements Store.
func (m *Memory) Changes() <-chan struct{} { return m.feed.Changes() }

// Snapshot returns a copy of every item in order.
func (m *Memory) Snapshot() []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Item(nil), m.items...)
}

var _ Store = (*Memory)(nil)
