// Package pager keeps a bounded, ordered window over a large sorted
// collection and extends it in either direction on demand.
//
// # Model
//
// The Engine owns a Window of items ordered by (sort key, id). The view
// reports when the first or last loaded row is on screen (TopVisible,
// BottomVisible), taps an index key (Jump) or types into a search box
// (Search). The engine turns those signals into range queries against a
// Port, merges the results into the Window and tells the view what changed
// through a Notifier:
//
//	WindowChanged    the new items and sections
//	ScrollRequested  scroll to an item (no animation) or a bucket header
//	LoadingChanged   per-direction loading indicator
//
// # Concurrency
//
// All state belongs to the goroutine running Engine.Run. Public methods post
// closures to its inbox and return immediately. Port calls run on their own
// goroutines and post completions back; every load carries the reset epoch
// and search text it was issued under, and completions that no longer match
// are dropped. Loading is single-flight per direction: a trigger while a
// load is outstanding is ignored rather than queued.
//
// # Anchors
//
// At most one scroll anchor is pending. A backward prepend sets a restore
// anchor on the previous first item, which is emitted without animation. A
// jump sets a bucket anchor that is emitted, animated, once the bucket shows
// up among the sections; it is dropped when the data runs past the bucket,
// the collection is exhausted, AnchorTimeout elapses, or the next
// jump/search/reset happens.
package pager
