package tui

import (
	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
	"github.com/rzbill/lodex/internal/pager"
)

type rowKind int

const (
	rowHeader rowKind = iota
	rowItem
	rowLoading
)

// row is one rendered line of the list.
type row struct {
	kind rowKind
	key  bucket.Key
	item catalog.Item
	// top marks the loading row above the window.
	top bool
}

// id identifies a row across rebuilds so the cursor survives window changes.
func (r row) id() string {
	switch r.kind {
	case rowHeader:
		return "h:" + string(r.key)
	case rowItem:
		return "i:" + r.item.ID
	default:
		if r.top {
			return "l:top"
		}
		return "l:bottom"
	}
}

func itemRowID(id string) string { return "i:" + id }
func headerRowID(key bucket.Key) string { return "h:" + string(key) }

// buildRows flattens the sections of snap with loading rows at either end.
func buildRows(snap pager.Snapshot) []row {
	n := len(snap.Items) + len(snap.Sections) + 2
	rows := make([]row, 0, n)
	if snap.LoadingBackward {
		rows = append(rows, row{kind: rowLoading, top: true})
	}
	for _, s := range snap.Sections {
		rows = append(rows, row{kind: rowHeader, key: s.Key})
		for _, it := range s.Items {
			rows = append(rows, row{kind: rowItem, key: s.Key, item: it})
		}
	}
	if snap.LoadingForward {
		rows = append(rows, row{kind: rowLoading})
	}
	return rows
}

func indexOf(rows []row, id string) int {
	for i, r := range rows {
		if r.id() == id {
			return i
		}
	}
	return -1
}
