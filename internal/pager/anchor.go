package pager

import (
	"time"

	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/pkg/log"
)

// pendingAnchor is the single outstanding scroll request.
type pendingAnchor struct {
	Anchor
	seq   uint64
	timer *time.Timer
}

func (e *Engine) setRestoreAnchor(itemID string) {
	if e.anchor != nil && e.anchor.Kind == AnchorBucket {
		e.logger.Debug("restore anchor overrides pending jump", log.Str("bucket", string(e.anchor.Bucket)))
	}
	e.clearAnchor()
	e.anchorSeq++
	e.anchor = &pendingAnchor{Anchor: Anchor{Kind: AnchorItem, ItemID: itemID}, seq: e.anchorSeq}
}

func (e *Engine) setBucketAnchor(key bucket.Key) {
	e.clearAnchor()
	e.anchorSeq++
	seq := e.anchorSeq
	a := &pendingAnchor{Anchor: Anchor{Kind: AnchorBucket, Bucket: key}, seq: seq}
	if e.opts.AnchorTimeout > 0 {
		a.timer = time.AfterFunc(e.opts.AnchorTimeout, func() {
			e.post(func() {
				if e.anchor != nil && e.anchor.seq == seq {
					e.logger.Debug("jump anchor timed out", log.Str("bucket", string(key)))
					e.clearAnchor()
				}
			})
		})
	}
	e.anchor = a
}

func (e *Engine) clearAnchor() {
	if e.anchor == nil {
		return
	}
	if e.anchor.timer != nil {
		e.anchor.timer.Stop()
	}
	e.anchor = nil
}

// reconcile runs after every window mutation. A restore anchor always wins;
// a bucket anchor fires once its bucket is among the sections and is dropped
// when it can no longer resolve.
func (e *Engine) reconcile() {
	a := e.anchor
	if a == nil {
		return
	}
	switch a.Kind {
	case AnchorItem:
		e.clearAnchor()
		if e.win.Contains(a.ItemID) {
			e.notifier.Notify(ScrollRequested{Anchor: a.Anchor, Animated: false})
		}
	case AnchorBucket:
		if HasBucket(e.win.Items(), e.alpha, a.Bucket) {
			e.clearAnchor()
			e.notifier.Notify(ScrollRequested{Anchor: a.Anchor, Animated: true})
			e.preview(a.Bucket)
			return
		}
		if e.anchorUnreachable(a.Bucket) {
			e.logger.Debug("jump anchor unreachable", log.Str("bucket", string(a.Bucket)))
			e.clearAnchor()
		}
	}
}

// anchorUnreachable reports whether loading further cannot produce key.
func (e *Engine) anchorUnreachable(key bucket.Key) bool {
	if e.win.Cursor().FullyLoaded {
		return true
	}
	upper := e.alpha.Upper(key)
	last, ok := e.win.Last()
	return ok && upper != "" && last.SortKey() >= upper
}
