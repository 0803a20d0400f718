// Package id provides the sortable identifiers lodex assigns to catalog items.
//
// An ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison follows creation order, and so does comparison of the
// 32-character hex form, which is what the catalog stores and what the pager
// uses as item identity and as the secondary sort key behind the name.
//
// The Generator is monotonic per process: a regressing clock pins to the
// last seen millisecond, and an exhausted sequence waits for the next one.
//
//	g := id.NewGenerator()
//	s := g.Next().String()
//	back, err := id.Parse(s)
package id
