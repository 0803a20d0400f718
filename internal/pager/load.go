package pager

import (
	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/pkg/log"
)

func (e *Engine) filter() string { return catalog.SearchFilter(e.search) }

// loadForward appends the next page after the cursor.
func (e *Engine) loadForward() {
	if e.fwd.loading || e.win.Cursor().FullyLoaded {
		return
	}
	cur := e.win.Cursor()
	q := catalog.ForwardQuery{Lower: cur.LowerBound, Offset: cur.Offset, Limit: e.opts.PageSize, Filter: e.filter()}
	epoch, search := e.epoch, e.search
	ctx := e.begin(Forward)

	go func() {
		items, err := e.port.Forward(ctx, q)
		e.post(func() { e.forwardDone(epoch, search, q, items, err) })
	}()
}

func (e *Engine) forwardDone(epoch uint64, search string, q catalog.ForwardQuery, items []catalog.Item, err error) {
	if !e.finish(Forward, epoch, search) {
		return
	}
	if err != nil {
		e.logger.Warn("forward load failed", log.Int("offset", q.Offset), log.Err(err))
		return
	}
	added := e.win.Append(items, q.Limit)
	e.logger.Debug("appended page",
		log.Int("fetched", len(items)), log.Int("added", added), log.Bool("fully_loaded", e.win.Cursor().FullyLoaded))
	e.changed()
}

// loadBackward prepends the items immediately before the coverage floor.
// The first call after construction or a reset is swallowed.
func (e *Engine) loadBackward() {
	if e.ignoreTop {
		e.ignoreTop = false
		return
	}
	if e.bwd.loading || e.win.Len() == 0 || e.win.AtStart() {
		return
	}
	first, _ := e.win.First()
	upper, upperID := e.win.Covered()
	floors := e.alpha.FloorsBefore(upper)
	limit, filter := e.opts.PrependLimit, e.filter()
	epoch, search := e.epoch, e.search
	ctx := e.begin(Backward)

	go func() {
		var (
			items []catalog.Item
			floor string
			err   error
		)
		for _, floor = range floors {
			items, err = e.port.Reverse(ctx, catalog.ReverseQuery{Lower: floor, Upper: upper, UpperID: upperID, Limit: limit, Filter: filter})
			if err != nil || len(items) > 0 {
				break
			}
		}
		e.post(func() { e.backwardDone(epoch, search, first.ID, floor, limit, items, err) })
	}()
}

func (e *Engine) backwardDone(epoch uint64, search, prevFirst, floor string, limit int, desc []catalog.Item, err error) {
	if !e.finish(Backward, epoch, search) {
		return
	}
	if err != nil {
		e.logger.Warn("backward load failed", log.Str("floor", floor), log.Err(err))
		return
	}
	if len(desc) < limit {
		e.win.extendCoverage(floor, "")
	} else {
		// same-named items with smaller ids may remain below the page
		last := desc[len(desc)-1]
		e.win.extendCoverage(last.SortKey(), last.ID)
	}
	added := e.win.Prepend(reversed(desc))
	e.logger.Debug("prepended page",
		log.Int("fetched", len(desc)), log.Int("added", added), log.Bool("at_start", e.win.AtStart()))
	if added > 0 {
		e.setRestoreAnchor(prevFirst)
	}
	e.changed()
}

// preview fetches a few items just before key's lower bound so the view has
// rows above the bucket header. It shares the backward loader and is
// skipped when those rows would not be contiguous with the window.
func (e *Engine) preview(key bucket.Key) {
	if e.opts.PreviewLimit < 0 || e.bwd.loading || key == e.alpha.Other() {
		return
	}
	b, ok := e.alpha.Lookup(key)
	if !ok || e.win.AtStart() || !e.win.coversFrom(b.Lower) {
		return
	}
	floor := ""
	if prev, ok := e.alpha.Prev(key); ok {
		floor = prev.Lower
	}
	if covered, _ := e.win.Covered(); covered <= floor {
		return
	}
	q := catalog.ReverseQuery{Lower: floor, Upper: b.Lower, Limit: e.opts.PreviewLimit, Filter: e.filter()}
	epoch, search := e.epoch, e.search
	ctx := e.begin(Backward)

	go func() {
		items, err := e.port.Reverse(ctx, q)
		e.post(func() { e.previewDone(epoch, search, q, items, err) })
	}()
}

func (e *Engine) previewDone(epoch uint64, search string, q catalog.ReverseQuery, desc []catalog.Item, err error) {
	if !e.finish(Backward, epoch, search) {
		return
	}
	if err != nil {
		e.logger.Warn("preview load failed", log.Str("upper", q.Upper), log.Err(err))
		return
	}
	if len(desc) < q.Limit {
		e.win.extendCoverage(q.Lower, "")
	} else if len(desc) > 0 {
		last := desc[len(desc)-1]
		e.win.extendCoverage(last.SortKey(), last.ID)
	}
	added := e.win.Merge(desc)
	e.logger.Debug("merged preview", log.Str("upper", q.Upper), log.Int("added", added))
	e.changed()
}

// jump scrolls to a loaded bucket or reloads the window from its lower bound.
// An active or pending search is dropped first; the filtered window is
// always reloaded.
func (e *Engine) jump(key bucket.Key) {
	b, ok := e.alpha.Lookup(key)
	if !ok {
		e.logger.Warn("ignoring jump to unknown bucket", log.Str("bucket", string(key)))
		return
	}
	filtered := e.search != ""
	if filtered || e.searchWanted != "" {
		e.logger.Debug("jump clears search", log.Str("bucket", string(key)), log.Str("search", e.searchWanted))
		e.cancelSearch()
	}
	if !filtered && HasBucket(e.win.Items(), e.alpha, key) {
		e.setBucketAnchor(key)
		e.reconcile()
		return
	}
	e.reset(b.Lower)
	e.setBucketAnchor(key)
	e.loadForward()
}

func reversed(desc []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, len(desc))
	for i, it := range desc {
		out[len(desc)-1-i] = it
	}
	return out
}
