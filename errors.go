package swissmap

import "errors"

// Error classification codes, following the sentinel-error pattern used
// throughout the pack (one var block, one sentence per sentinel, callers
// classify with errors.Is rather than type assertions).
var (
	// ErrNotFound indicates the requested key is absent from the table.
	ErrNotFound = errors.New("swissmap: not found")

	// ErrOutOfMemory indicates growth or initialization failed to
	// allocate the new entries/control arrays. The table is left on its
	// pre-resize backing arrays, structurally unchanged.
	ErrOutOfMemory = errors.New("swissmap: out of memory")

	// ErrHashFailure indicates the caller-supplied hash function panicked
	// or otherwise signaled it could not hash the given key. The
	// operation aborts before any control byte or entry is written.
	ErrHashFailure = errors.New("swissmap: hash function failed")

	// ErrEqualityFailure indicates the caller-supplied equality function
	// panicked while comparing keys. The operation aborts.
	ErrEqualityFailure = errors.New("swissmap: equality function failed")

	// ErrConcurrentModification indicates an iterator observed the
	// table's version counter advance since the iterator was created.
	// The iterator is unusable after returning this error.
	ErrConcurrentModification = errors.New("swissmap: concurrent modification")

	// ErrIteratorDone indicates an iterator has visited every slot it
	// will ever visit; calling Next again keeps returning this error.
	ErrIteratorDone = errors.New("swissmap: iterator done")
)
