// Package bucket classifies sort keys into a small ordered set of navigation
// buckets (the rows of an index bar).
//
// An Alphabet is an injectable value: an ordered list of buckets, each with a
// sort-key lower bound and the leading characters that belong to it, plus a
// fallback key for everything else. Two alphabets are built in: Gojuon (the
// ten kana rows) and Latin (A-Z). Both use "#" as the fallback.
//
// Classification looks only at the first rune of a sort key and never
// changes for the lifetime of an Alphabet. Range helpers (Position,
// FloorsBefore, Upper) work on byte order of the lower bounds, which is the
// order the catalog stores keys in.
package bucket
