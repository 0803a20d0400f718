package pager

import (
	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
)

// Direction names a loader.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// AnchorKind distinguishes scroll targets.
type AnchorKind int

const (
	// AnchorItem restores the viewport to an item after a prepend.
	AnchorItem AnchorKind = iota + 1
	// AnchorBucket scrolls to a bucket header after a jump.
	AnchorBucket
)

// Anchor is a scroll target.
type Anchor struct {
	Kind   AnchorKind
	ItemID string
	Bucket bucket.Key
}

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Items           []catalog.Item
	Sections        []Section
	Cursor          Cursor
	AtStart         bool
	LoadingForward  bool
	LoadingBackward bool
	Search          string
}

// Event is emitted to the Notifier on the engine goroutine.
type Event interface{ event() }

// WindowChanged carries the window after a mutation.
type WindowChanged struct{ Snapshot Snapshot }

// ScrollRequested asks the view to scroll once.
type ScrollRequested struct {
	Anchor   Anchor
	Animated bool
}

// LoadingChanged toggles a loading indicator.
type LoadingChanged struct {
	Direction Direction
	Loading   bool
}

func (WindowChanged) event()   {}
func (ScrollRequested) event() {}
func (LoadingChanged) event()  {}

// Notifier receives engine events. Notify runs on the engine goroutine and
// must not block or call Engine.Snapshot.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
