package pager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
)

const waitFor = 2 * time.Second
const tick = 2 * time.Millisecond

// fakePort wraps a memory store, records queries and can hold calls.
type fakePort struct {
	store *catalog.Memory

	mu       sync.Mutex
	forwards []catalog.ForwardQuery
	reverses []catalog.ReverseQuery
	failNext int
	gates    map[string]chan struct{} // keyed by filter; "*" holds everything
}

func newFakePort(items ...catalog.Item) *fakePort {
	return &fakePort{store: catalog.NewMemory(items...), gates: map[string]chan struct{}{}}
}

// hold makes calls with filter (or all calls for "*") wait until released.
// Held calls ignore cancellation, like a backend that answers late.
func (p *fakePort) hold(filter string) func() {
	ch := make(chan struct{})
	p.mu.Lock()
	p.gates[filter] = ch
	p.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.gates, filter)
			p.mu.Unlock()
			close(ch)
		})
	}
}

func (p *fakePort) wait(filter string) {
	p.mu.Lock()
	ch, ok := p.gates[filter]
	if !ok {
		ch, ok = p.gates["*"]
	}
	p.mu.Unlock()
	if ok {
		<-ch
	}
}

var errBackend = errors.New("backend unavailable")

func (p *fakePort) Forward(ctx context.Context, q catalog.ForwardQuery) ([]catalog.Item, error) {
	p.mu.Lock()
	p.forwards = append(p.forwards, q)
	fail := p.failNext > 0
	if fail {
		p.failNext--
	}
	p.mu.Unlock()
	p.wait(q.Filter)
	if fail {
		return nil, errBackend
	}
	return p.store.Forward(context.WithoutCancel(ctx), q)
}

func (p *fakePort) Reverse(ctx context.Context, q catalog.ReverseQuery) ([]catalog.Item, error) {
	p.mu.Lock()
	p.reverses = append(p.reverses, q)
	p.mu.Unlock()
	p.wait(q.Filter)
	return p.store.Reverse(context.WithoutCancel(ctx), q)
}

func (p *fakePort) Count(ctx context.Context, filter string) (int, error) {
	return p.store.Count(ctx, filter)
}

func (p *fakePort) forwardCalls() []catalog.ForwardQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]catalog.ForwardQuery(nil), p.forwards...)
}

func (p *fakePort) reverseCalls() []catalog.ReverseQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]catalog.ReverseQuery(nil), p.reverses...)
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) scrolls() []ScrollRequested {
	var out []ScrollRequested
	for _, ev := range r.all() {
		if s, ok := ev.(ScrollRequested); ok {
			out = append(out, s)
		}
	}
	return out
}

func startEngine(t *testing.T, port Port, alpha *bucket.Alphabet, opts Options) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts.Notifier = rec
	e := New(port, alpha, opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return e, rec
}

// settle waits until neither loader is busy and returns the state.
func settle(t *testing.T, e *Engine) Snapshot {
	t.Helper()
	var snap Snapshot
	require.Eventually(t, func() bool {
		snap = e.Snapshot()
		return !snap.LoadingForward && !snap.LoadingBackward
	}, waitFor, tick)
	return snap
}

// namedItems builds items with the given names and ids "<prefix><index>".
func namedItems(prefix string, names ...string) []catalog.Item {
	out := make([]catalog.Item, len(names))
	for i, n := range names {
		out[i] = catalog.Item{ID: fmt.Sprintf("%s%03d", prefix, i), Name: n}
	}
	return out
}

func series(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return out
}

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

// requireContiguous checks that window is a gap-free, duplicate-free slice
// of store in order.
func requireContiguous(t *testing.T, store, window []catalog.Item) {
	t.Helper()
	if len(window) == 0 {
		return
	}
	require.True(t, sort.SliceIsSorted(window, func(i, j int) bool { return catalog.Less(window[i], window[j]) }), "window not sorted")
	start := -1
	for i, it := range store {
		if it.ID == window[0].ID {
			start = i
			break
		}
	}
	require.GreaterOrEqual(t, start, 0, "first window item not in store")
	require.LessOrEqual(t, start+len(window), len(store))
	require.Equal(t, ids(store[start:start+len(window)]), ids(window))
}
