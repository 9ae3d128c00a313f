package swissmap

import (
	"hash/maphash"

	dolthash "github.com/dolthub/maphash"
)

// HashFunc computes the full hash code for a key. The table caches the
// result at the occupied slot (entry.hash) and only re-derives the h1/h2
// pair from it; HashFunc itself is called once per operation.
//
// A HashFunc supplied via WithHashFunc is, together with the EqualFunc, one
// of the two points where probing calls into caller code (spec §5): it MUST NOT
// mutate the table it is passed to, directly or through a captured
// closure. A HashFunc that panics aborts the in-flight operation with
// ErrHashFailure; see safeHash.
type HashFunc[K comparable] func(key K) uint64

// EqualFunc reports whether two keys compare equal. The default (used
// when no WithEqualFunc option is given) is Go's built-in == on the
// comparable constraint. A custom EqualFunc is useful when the host wants
// equality semantics built-in == doesn't give, e.g. NaN-tolerant floats or
// case-folded strings keyed by a case-sensitive comparable type.
type EqualFunc[K comparable] func(a, b K) bool

func defaultEqualFunc[K comparable]() EqualFunc[K] {
	return func(a, b K) bool { return a == b }
}

// defaultHashFunc wraps hash/maphash.Comparable, matching the teacher's
// zero-dependency default. Selected through WithStdHasher by callers that
// don't want the dolthub/maphash dependency.
func defaultHashFunc[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

// dolthubHashFunc adapts github.com/dolthub/maphash's generic Hasher into
// a HashFunc. This is the table's default hasher (see table.init): it
// amortizes seed generation the same way
// hash/maphash.Comparable does but is the hasher the rest of the pack's
// generic Swiss tables standardize on (flier-goutil/pkg/arena/swiss,
// dolthub/swiss).
func dolthubHashFunc[K comparable]() HashFunc[K] {
	hasher := dolthash.NewHasher[K]()
	return func(k K) uint64 {
		return hasher.Hash(k)
	}
}

// HashSplit separates a full hash code into its group-selection bits (h1)
// and its 7-bit fingerprint (h2), per spec §4.2.
func HashSplit(hash uint64) (uintptr, uint8) {
	h1 := uintptr(hash >> 7)
	h2 := uint8(hash & 0x7F)
	return h1, remapReservedH2(h2)
}

// remapReservedH2 applies the deterministic substitution spec §3 requires
// when a fingerprint would otherwise collide with a reserved control
// value. Because h2 is always masked to 7 bits (bit 7 clear) it can never
// literally equal slotEmpty or slotDeleted (both have bit 7 set), so this
// is unreachable in the current encoding — it exists to keep the
// invariant explicit and to protect any future encoding change that
// widens h2's range.
func remapReservedH2(h2 uint8) uint8 {
	if h2 == slotEmpty || h2 == slotDeleted {
		return 0
	}
	return h2
}
