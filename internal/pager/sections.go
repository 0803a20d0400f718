package pager

import (
	"github.com/rzbill/lodex/internal/bucket"
	"github.com/rzbill/lodex/internal/catalog"
)

// Section groups the window by bucket.
type Section struct {
	Key   bucket.Key     `json:"key"`
	Items []catalog.Item `json:"items"`
}

// BuildSections projects ordered items onto the alphabet's buckets in
// display order, the fallback bucket last. Empty buckets are omitted.
func BuildSections(items []catalog.Item, alpha *bucket.Alphabet) []Section {
	if len(items) == 0 {
		return nil
	}
	keys := alpha.Keys()
	groups := make([][]catalog.Item, len(keys))
	for _, it := range items {
		pos := alpha.Order(alpha.Classify(it.SortKey()))
		groups[pos] = append(groups[pos], it)
	}
	out := make([]Section, 0, len(keys))
	for i, g := range groups {
		if len(g) > 0 {
			out = append(out, Section{Key: keys[i], Items: g})
		}
	}
	return out
}

// HasBucket reports whether any item classifies into key.
func HasBucket(items []catalog.Item, alpha *bucket.Alphabet, key bucket.Key) bool {
	for _, it := range items {
		if alpha.Classify(it.SortKey()) == key {
			return true
		}
	}
	return false
}
