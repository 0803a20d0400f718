package catalog

import (
	"encoding/binary"
	"fmt"
	"strings"
)

var (
	colPrefix = []byte("col/")
	entrySeg  = []byte("/i/")
	idSeg     = []byte("/id/")
	countSeg  = []byte("/m/count")
)

// ValidateCollection rejects names that would break the keyspace.
func ValidateCollection(c string) error {
	if c == "" || strings.ContainsAny(c, "/\x00") {
		return fmt.Errorf("%w: collection name %q", ErrInvalidQuery, c)
	}
	return nil
}

func keyEntryPrefix(c string) []byte {
	k := make([]byte, 0, len(colPrefix)+len(c)+len(entrySeg))
	k = append(k, colPrefix...)
	k = append(k, c...)
	return append(k, entrySeg...)
}

// keyEntry builds col/{c}/i/{name}\x00{id}.
func keyEntry(c, name, id string) []byte {
	k := keyEntryPrefix(c)
	k = append(k, name...)
	k = append(k, 0)
	return append(k, id...)
}

// keyEntryBound builds the scan bound for names >= name (or < name when
// used as an upper bound).
func keyEntryBound(c, name string) []byte {
	return append(keyEntryPrefix(c), name...)
}

// keyEntryEnd is the exclusive end of the entry range.
func keyEntryEnd(c string) []byte {
	return prefixEnd(keyEntryPrefix(c))
}

func keyIdentity(c, id string) []byte {
	k := make([]byte, 0, len(colPrefix)+len(c)+len(idSeg)+len(id))
	k = append(k, colPrefix...)
	k = append(k, c...)
	k = append(k, idSeg...)
	return append(k, id...)
}


func keyCount(c string) []byte {
	k := make([]byte, 0, len(colPrefix)+len(c)+len(countSeg))
	k = append(k, colPrefix...)
	k = append(k, c...)
	return append(k, countSeg...)
}

func keyCollection(c string) []byte {
	k := append([]byte(nil), colPrefix...)
	k = append(k, c...)
	return append(k, '/')
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func encodeCount(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}

func decodeCount(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b[:8])
}
