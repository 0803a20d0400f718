package pager

import (
	"context"
	"errors"
	"time"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/pkg/log"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultPageSize       = 50
	DefaultPrependLimit   = 50
	DefaultPreviewLimit   = 12
	DefaultSearchDebounce = 200 * time.Millisecond
	DefaultAnchorTimeout  = 3 * time.Second
)

const inboxSize = 1024

// Options configures an Engine.
type Options struct {
	PageSize     int
	PrependLimit int
	// PreviewLimit sizes the prefetch above a jumped-to bucket. Negative
	// disables it.
	PreviewLimit int
	// SearchDebounce delays non-empty search text before it is applied.
	SearchDebounce time.Duration
	// AnchorTimeout drops a jump anchor that has not resolved. Negative
	// disables the timer.
	AnchorTimeout time.Duration
	Logger        log.Logger
	Notifier      Notifier
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.PrependLimit <= 0 {
		o.PrependLimit = DefaultPrependLimit
	}
	if o.PreviewLimit == 0 {
		o.PreviewLimit = DefaultPreviewLimit
	}
	if o.SearchDebounce == 0 {
		o.SearchDebounce = DefaultSearchDebounce
	}
	if o.AnchorTimeout == 0 {
		o.AnchorTimeout = DefaultAnchorTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	if o.Notifier == nil {
		o.Notifier = nopNotifier{}
	}
	return o
}

// loader is the single-flight state of one direction.
type loader struct {
	loading bool
	cancel  context.CancelFunc
}

// Engine drives a Window from view signals. Create with New, start with Run.
type Engine struct {
	port     Port
	alpha    *bucket.Alphabet
	opts     Options
	logger   log.Logger
	notifier Notifier

	inbox chan func()
	done  chan struct{}

	// owned by the Run goroutine
	runCtx    context.Context
	win       *Window
	epoch     uint64
	fwd, bwd  loader
	ignoreTop bool
	anchor    *pendingAnchor
	anchorSeq uint64

	search       string // applied search text
	searchWanted string // latest requested search text
	searchTimer  *time.Timer
}

// ErrStopped is returned by Run when called twice.
var ErrStopped = errors.New("pager: engine already ran")

// New builds an engine over port using alpha for sections and jumps.
func New(port Port, alpha *bucket.Alphabet, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		port:      port,
		alpha:     alpha,
		opts:      opts,
		logger:    opts.Logger.WithComponent("pager"),
		notifier:  opts.Notifier,
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		runCtx:    context.Background(),
		win:       NewWindow(opts.PageSize),
		ignoreTop: true,
	}
	return e
}

// Alphabet returns the bucket alphabet.
func (e *Engine) Alphabet() *bucket.Alphabet { return e.alpha }

// Run processes triggers and completions until ctx is done. In-flight loads
// are cancelled on return.
func (e *Engine) Run(ctx context.Context) error {
	select {
	case <-e.done:
		return ErrStopped
	default:
	}
	e.runCtx = ctx
	defer func() {
		e.cancelLoads()
		e.clearAnchor()
		if e.searchTimer != nil {
			e.searchTimer.Stop()
		}
		close(e.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-e.inbox:
			fn()
		}
	}
}

// post queues fn for the owner goroutine. It reports false once the engine
// has stopped.
func (e *Engine) post(fn func()) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.inbox <- fn:
		return true
	case <-e.done:
		return false
	}
}

// Start performs the first load from the start of the collection.
func (e *Engine) Start() { e.post(func() { e.resetAndLoad("start") }) }

// Invalidate discards the window after a bulk mutation of the store and
// reloads from the start, keeping the active search.
func (e *Engine) Invalidate() { e.post(func() { e.resetAndLoad("invalidate") }) }

// BottomVisible reports that the last loaded row is on screen.
func (e *Engine) BottomVisible() { e.post(e.loadForward) }

// TopVisible reports that the first loaded row is on screen.
func (e *Engine) TopVisible() { e.post(e.loadBackward) }

// Jump navigates to bucket key.
func (e *Engine) Jump(key bucket.Key) { e.post(func() { e.jump(key) }) }

// Search requests a name filter. Non-empty text is applied after the
// debounce; empty text clears the filter immediately.
func (e *Engine) Search(text string) { e.post(func() { e.requestSearch(text) }) }

// Snapshot returns the current state. It must not be called from a Notifier.
func (e *Engine) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if !e.post(func() { reply <- e.snapshot() }) {
		return Snapshot{}
	}
	select {
	case s := <-reply:
		return s
	case <-e.done:
		return Snapshot{}
	}
}

func (e *Engine) snapshot() Snapshot {
	items := append(e.win.Items()[:0:0], e.win.Items()...)
	return Snapshot{
		Items:           items,
		Sections:        BuildSections(items, e.alpha),
		Cursor:          e.win.Cursor(),
		AtStart:         e.win.AtStart(),
		LoadingForward:  e.fwd.loading,
		LoadingBackward: e.bwd.loading,
		Search:          e.search,
	}
}

// changed publishes the window and then reconciles anchors.
func (e *Engine) changed() {
	e.notifier.Notify(WindowChanged{Snapshot: e.snapshot()})
	e.reconcile()
}

// reset starts a new epoch from lower. Outstanding loads are cancelled and
// their completions will be discarded.
func (e *Engine) reset(lower string) {
	e.epoch++
	e.cancelLoads()
	e.clearAnchor()
	e.ignoreTop = true
	e.win.Reset(lower)
	e.logger.Debug("window reset",
		log.Str("lower", lower), log.Str("search", e.search), log.Uint64("epoch", e.epoch))
	e.changed()
}

func (e *Engine) resetAndLoad(reason string) {
	e.logger.Debug("reloading window", log.Str("reason", reason))
	e.reset("")
	e.loadForward()
}

func (e *Engine) cancelLoads() {
	for _, d := range []Direction{Forward, Backward} {
		l := e.loaderFor(d)
		if l.cancel != nil {
			l.cancel()
			l.cancel = nil
		}
		e.setLoading(d, false)
	}
}

func (e *Engine) loaderFor(d Direction) *loader {
	if d == Backward {
		return &e.bwd
	}
	return &e.fwd
}

func (e *Engine) setLoading(d Direction, on bool) {
	l := e.loaderFor(d)
	if l.loading == on {
		return
	}
	l.loading = on
	e.notifier.Notify(LoadingChanged{Direction: d, Loading: on})
}

// begin marks d as loading and returns the context for its port calls.
func (e *Engine) begin(d Direction) context.Context {
	ctx, cancel := context.WithCancel(e.runCtx)
	e.loaderFor(d).cancel = cancel
	e.setLoading(d, true)
	return ctx
}

// finish returns d to idle if the completion still belongs to the current
// epoch and search. It reports whether the result should be applied.
func (e *Engine) finish(d Direction, epoch uint64, search string) bool {
	if epoch != e.epoch || search != e.search {
		e.logger.Debug("discarding stale load",
			log.Str("direction", d.String()), log.Uint64("epoch", epoch), log.Str("search", search))
		return false
	}
	l := e.loaderFor(d)
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	e.setLoading(d, false)
	return true
}
