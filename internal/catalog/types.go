package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxLimit caps the page size of a single query.
const MaxLimit = 1000

var (
	// ErrInvalidQuery marks malformed query bounds or filters.
	ErrInvalidQuery = errors.New("catalog: invalid query")
	// ErrInvalidItem marks items that cannot be stored.
	ErrInvalidItem = errors.New("catalog: invalid item")
)

// Item is a catalog record. Name is the sort key; ID is the identity and
// breaks ties between equal names.
type Item struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedMs int64             `json:"createdMs"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// SortKey returns the key items are ordered and bucketed by.
func (it Item) SortKey() string { return it.Name }

// Less orders items by (Name, ID).
func Less(a, b Item) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// ForwardQuery asks for up to Limit items with Name >= Lower ascending,
// skipping the first Offset matches. An empty Lower is unbounded.
type ForwardQuery struct {
	Lower  string `json:"lower,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit"`
	Filter string `json:"filter,omitempty"`
}

// ReverseQuery asks for up to Limit items with Lower <= Name < Upper in
// descending order. With UpperID set the upper bound is the position
// (Upper, UpperID) instead: items named Upper with a smaller ID are included.
// An empty Upper and UpperID leave the range unbounded.
type ReverseQuery struct {
	Lower   string `json:"lower,omitempty"`
	Upper   string `json:"upper,omitempty"`
	UpperID string `json:"upperId,omitempty"`
	Limit   int    `json:"limit"`
	Filter  string `json:"filter,omitempty"`
}

// Bounded reports whether q has an upper bound.
func (q ReverseQuery) Bounded() bool { return q.Upper != "" || q.UpperID != "" }

// Empty reports whether q's range can contain no items.
func (q ReverseQuery) Empty() bool {
	if q.UpperID != "" {
		return q.Upper < q.Lower
	}
	return EmptyRange(q.Lower, q.Upper)
}

// Reader is the read side shared by every backend.
type Reader interface {
	Forward(ctx context.Context, q ForwardQuery) ([]Item, error)
	Reverse(ctx context.Context, q ReverseQuery) ([]Item, error)
	Count(ctx context.Context, filter string) (int, error)
}

// Store is a full catalog backend.
type Store interface {
	Reader
	// Insert upserts items by ID.
	Insert(ctx context.Context, items []Item) error
	// DeleteAll removes every item of the collection.
	DeleteAll(ctx context.Context) error
	// Changes returns a channel closed on the next bulk mutation.
	Changes() <-chan struct{}
}

// ValidateForward normalizes q, clamping Limit to MaxLimit.
func ValidateForward(q ForwardQuery) (ForwardQuery, error) {
	if q.Offset < 0 || q.Limit < 0 {
		return q, fmt.Errorf("%w: offset and limit must not be negative", ErrInvalidQuery)
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

// ValidateReverse normalizes q, clamping Limit to MaxLimit.
func ValidateReverse(q ReverseQuery) (ReverseQuery, error) {
	if q.Limit < 0 {
		return q, fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

// EmptyRange reports whether [lower, upper) can contain no names.
func EmptyRange(lower, upper string) bool {
	return upper != "" && upper <= lower
}

// ValidateItem checks that it can be keyed.
func ValidateItem(it Item) error {
	switch {
	case it.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	case strings.IndexByte(it.ID, 0) >= 0 || strings.IndexByte(it.Name, 0) >= 0:
		return fmt.Errorf("%w: id and name must not contain NUL", ErrInvalidItem)
	}
	return nil
}
