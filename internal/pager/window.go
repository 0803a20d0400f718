package pager

import (
	"sort"

	"github.com/rzbill/lodex/internal/catalog"
)

// Cursor tracks forward progress for the active lower bound.
type Cursor struct {
	LowerBound  string `json:"lowerBound,omitempty"`
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
	FullyLoaded bool   `json:"fullyLoaded"`
}

// Window is the loaded, ordered slice of the collection. It is not safe for
// concurrent use; the Engine confines it to its owner goroutine.
//
// Besides the items it tracks coverage: every item ordered at or after the
// position (covered, coveredID) up to the last one is loaded. An empty
// coveredID covers every item named covered, and an empty position means the
// window reaches the start of the collection.
type Window struct {
	items     []catalog.Item
	ids       map[string]struct{}
	cursor    Cursor
	covered   string
	coveredID string
}

// NewWindow returns an empty window whose forward pages hold limit items.
func NewWindow(limit int) *Window {
	w := &Window{}
	w.cursor.Limit = limit
	w.Reset("")
	return w
}

// Reset clears the items and starts over from lower.
func (w *Window) Reset(lower string) {
	w.items = nil
	w.ids = make(map[string]struct{})
	w.cursor = Cursor{LowerBound: lower, Limit: w.cursor.Limit}
	w.covered = lower
	w.coveredID = ""
}

// Append merges a forward page. The offset advances by the unfiltered page
// size and the cursor is exhausted when fewer than requested arrived.
func (w *Window) Append(fetched []catalog.Item, requested int) int {
	w.cursor.Offset += len(fetched)
	w.cursor.FullyLoaded = len(fetched) < requested
	return w.insert(fetched)
}

// Prepend merges ascending items from before the window. The cursor is
// untouched.
func (w *Window) Prepend(ascending []catalog.Item) int {
	return w.insert(ascending)
}

// Merge inserts items at their sorted positions. The cursor is untouched.
func (w *Window) Merge(items []catalog.Item) int {
	return w.insert(items)
}

// extendCoverage lowers the coverage floor to the position (name, id).
func (w *Window) extendCoverage(name, id string) {
	if name < w.covered || name == w.covered && id < w.coveredID {
		w.covered, w.coveredID = name, id
	}
}

// coversFrom reports whether every item named name or later is loaded.
func (w *Window) coversFrom(name string) bool {
	return w.covered < name || w.covered == name && w.coveredID == ""
}

func (w *Window) insert(batch []catalog.Item) int {
	novel := make([]catalog.Item, 0, len(batch))
	for _, it := range batch {
		if _, dup := w.ids[it.ID]; dup {
			continue
		}
		w.ids[it.ID] = struct{}{}
		novel = append(novel, it)
	}
	if len(novel) == 0 {
		return 0
	}
	sort.SliceStable(novel, func(i, j int) bool { return catalog.Less(novel[i], novel[j]) })

	switch {
	case len(w.items) == 0 || !catalog.Less(novel[0], w.items[len(w.items)-1]):
		w.items = append(w.items, novel...)
	case catalog.Less(novel[len(novel)-1], w.items[0]):
		w.items = append(novel, w.items...)
	default:
		merged := make([]catalog.Item, 0, len(w.items)+len(novel))
		i, j := 0, 0
		for i < len(w.items) && j < len(novel) {
			if catalog.Less(novel[j], w.items[i]) {
				merged = append(merged, novel[j])
				j++
			} else {
				merged = append(merged, w.items[i])
				i++
			}
		}
		merged = append(merged, w.items[i:]...)
		w.items = append(merged, novel[j:]...)
	}
	return len(novel)
}

// Items returns the loaded items. The slice must not be modified.
func (w *Window) Items() []catalog.Item { return w.items }

// Len returns the number of loaded items.
func (w *Window) Len() int { return len(w.items) }

// Cursor returns the forward cursor.
func (w *Window) Cursor() Cursor { return w.cursor }

// AtStart reports whether the window reaches the start of the collection.
func (w *Window) AtStart() bool { return w.covered == "" && w.coveredID == "" }

// Covered returns the coverage floor. CoveredID is non-empty when only the
// items named Covered with an ID at or above it are loaded.
func (w *Window) Covered() (name, id string) { return w.covered, w.coveredID }

// First returns the first loaded item.
func (w *Window) First() (catalog.Item, bool) {
	if len(w.items) == 0 {
		return catalog.Item{}, false
	}
	return w.items[0], true
}

// Last returns the last loaded item.
func (w *Window) Last() (catalog.Item, bool) {
	if len(w.items) == 0 {
		return catalog.Item{}, false
	}
	return w.items[len(w.items)-1], true
}

// Contains reports whether an item with id is loaded.
func (w *Window) Contains(id string) bool {
	_, ok := w.ids[id]
	return ok
}
