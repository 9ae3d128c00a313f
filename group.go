package swissmap

import "unsafe"

// groupSize is the number of control bytes scanned together as one unit.
// 16 matches a single SSE/NEON vector width; spec resolves the group-size
// Open Question (8 vs 16, see original source variants) in favor of 16.
// Without a native 128-bit compare, the group is scanned as two 8-byte
// halves matched independently with the word-parallel trick in bits.go,
// then the two 8-lane match results are combined into one 16-lane mask. Real
// Swiss tables in the pack use the same width and the same split-load idea
// (e.g. the dolthub/maphash-backed port in flier-goutil/pkg/arena/swiss).
const groupSize = 16

// loadGroup reads the two 8-byte halves of the control array starting at
// byte offset off as words, ready for matchH2/matchEmpty/matchEmptyOrDeleted.
func loadGroup(ctrls []byte, off uintptr) (lo, hi uint64) {
	lo = *(*uint64)(unsafe.Pointer(&ctrls[off]))
	hi = *(*uint64)(unsafe.Pointer(&ctrls[off+8]))
	return lo, hi
}
