package bucket

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key names a navigation bucket.
type Key string

// DefaultOther is the fallback key of the built-in alphabets.
const DefaultOther Key = "#"

// ErrUnknownKey is returned when a key is not part of an alphabet.
var ErrUnknownKey = errors.New("bucket: unknown key")

// Bucket is one navigation row.
type Bucket struct {
	Key Key `json:"key" yaml:"key"`
	// Lower is the inclusive sort-key lower bound. The next bucket's Lower is
	// this bucket's exclusive upper bound.
	Lower string `json:"lower" yaml:"lower"`
	// Members lists the leading characters classified into this bucket.
	// Empty means the runes of Key.
	Members string `json:"members,omitempty" yaml:"members,omitempty"`
}

// Alphabet is an ordered set of buckets plus a classifier.
type Alphabet struct {
	buckets []Bucket
	other   Key
	byRune  map[rune]int
	byKey   map[Key]int
}

// New validates buckets and builds an Alphabet. Lower bounds must be
// non-empty and strictly ascending, keys unique, and no leading character
// may belong to two buckets. Every name starting with a member must also
// sort inside its bucket's [Lower, next.Lower) range, so grouping by
// Classify and loading by range agree.
func New(buckets []Bucket, other Key) (*Alphabet, error) {
	if len(buckets) == 0 {
		return nil, errors.New("bucket: alphabet needs at least one bucket")
	}
	if other == "" {
		other = DefaultOther
	}
	a := &Alphabet{
		buckets: make([]Bucket, len(buckets)),
		other:   other,
		byRune:  make(map[rune]int),
		byKey:   make(map[Key]int, len(buckets)+1),
	}
	for i, b := range buckets {
		if b.Key == "" || b.Key == other {
			return nil, fmt.Errorf("bucket: invalid key %q at %d", b.Key, i)
		}
		if _, dup := a.byKey[b.Key]; dup {
			return nil, fmt.Errorf("bucket: duplicate key %q", b.Key)
		}
		if b.Lower == "" {
			return nil, fmt.Errorf("bucket: %q has no lower bound", b.Key)
		}
		if i > 0 && b.Lower <= buckets[i-1].Lower {
			return nil, fmt.Errorf("bucket: lower bound of %q must sort after %q", b.Key, buckets[i-1].Key)
		}
		members := b.Members
		if members == "" {
			members = string(b.Key)
		}
		for _, r := range members {
			if prev, taken := a.byRune[r]; taken && prev != i {
				return nil, fmt.Errorf("bucket: %q claimed by %q and %q", r, buckets[prev].Key, b.Key)
			}
			a.byRune[r] = i
		}
		b.Members = members
		a.buckets[i] = b
		a.byKey[b.Key] = i
	}
	for r, i := range a.byRune {
		if !a.spans(i, r) {
			return nil, fmt.Errorf("bucket: %q of %q sorts outside its range", r, a.buckets[i].Key)
		}
	}
	a.byKey[other] = len(buckets)
	return a, nil
}

// spans reports whether every sort key led by r falls in bucket i's range.
func (a *Alphabet) spans(i int, r rune) bool {
	lead := string(r)
	if a.Position(lead) != i {
		return false
	}
	if i+1 < len(a.buckets) && strings.HasPrefix(a.buckets[i+1].Lower, lead) {
		return false
	}
	return true
}

// MustNew is New that panics; for package-level alphabets.
func MustNew(buckets []Bucket, other Key) *Alphabet {
	a, err := New(buckets, other)
	if err != nil {
		panic(err)
	}
	return a
}

// Classify maps a sort key to its bucket. It is total: the empty key and
// unknown leading characters map to Other.
func (a *Alphabet) Classify(sortKey string) Key {
	r, size := utf8.DecodeRuneInString(sortKey)
	if size == 0 || r == utf8.RuneError {
		return a.other
	}
	if i, ok := a.byRune[r]; ok {
		return a.buckets[i].Key
	}
	return a.other
}

// Other returns the fallback key.
func (a *Alphabet) Other() Key { return a.other }

// Keys returns every key in display order, the fallback last.
func (a *Alphabet) Keys() []Key {
	out := make([]Key, 0, len(a.buckets)+1)
	for _, b := range a.buckets {
		out = append(out, b.Key)
	}
	return append(out, a.other)
}

// Buckets returns a copy of the ordered buckets (fallback excluded).
func (a *Alphabet) Buckets() []Bucket {
	return append([]Bucket(nil), a.buckets...)
}

// Parse resolves a key name.
func (a *Alphabet) Parse(s string) (Key, error) {
	if _, ok := a.byKey[Key(s)]; ok {
		return Key(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// Order returns the display position of key, or -1.
func (a *Alphabet) Order(key Key) int {
	if i, ok := a.byKey[key]; ok {
		return i
	}
	return -1
}

// Lookup returns the bucket for key. The fallback resolves to a bucket with
// an empty lower bound (the start of the store).
func (a *Alphabet) Lookup(key Key) (Bucket, bool) {
	i, ok := a.byKey[key]
	if !ok {
		return Bucket{}, false
	}
	if i == len(a.buckets) {
		return Bucket{Key: a.other}, true
	}
	return a.buckets[i], true
}

// Prev returns the bucket ordered immediately before key.
func (a *Alphabet) Prev(key Key) (Bucket, bool) {
	i, ok := a.byKey[key]
	if !ok || i == 0 || i == len(a.buckets) {
		return Bucket{}, false
	}
	return a.buckets[i-1], true
}

// Upper returns the exclusive upper bound of key's range; "" means unbounded.
func (a *Alphabet) Upper(key Key) string {
	i, ok := a.byKey[key]
	if !ok || i+1 >= len(a.buckets) {
		return ""
	}
	return a.buckets[i+1].Lower
}

// Position returns the index of the bucket whose [Lower, next.Lower) range
// contains sortKey, or -1 when sortKey sorts before every bucket.
func (a *Alphabet) Position(sortKey string) int {
	pos := -1
	for i, b := range a.buckets {
		if b.Lower > sortKey {
			break
		}
		pos = i
	}
	return pos
}

// FloorsBefore lists candidate lower bounds for a backward range ending at
// sortKey, nearest first: the lower bounds at or below sortKey's range that
// sort strictly before it, then "" for the start of the store.
func (a *Alphabet) FloorsBefore(sortKey string) []string {
	pos := a.Position(sortKey)
	out := make([]string, 0, pos+2)
	for i := pos; i >= 0; i-- {
		if a.buckets[i].Lower < sortKey {
			out = append(out, a.buckets[i].Lower)
		}
	}
	return append(out, "")
}
