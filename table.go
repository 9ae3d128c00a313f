package swissmap

const (
	slotEmpty   = 0x80
	slotDeleted = 0xFE
)

// table is the engine: memory layout, probing, growth and the
// insertion-order list. Map and Set are thin public wrappers around it,
// mirroring how the teacher split StableMap/StableSet from the shared
// table type.
type table[K comparable, V any] struct {
	ctrls   []byte        // len == capacity, grouped logically into capacity/groupSize groups
	entries []entry[K, V] // len == capacity, index-addressable (spec §3)

	capacity          uintptr
	groupsMask        uintptr
	effectiveCapacity uintptr // capacity * 7 / 8, the load-factor ceiling (I1)
	used              uintptr
	tombstones        uintptr
	version           uint64

	head, tail int32 // insertion-order list sentinels, listEnd when empty

	hashFunc HashFunc[K]
	eqFunc   EqualFunc[K]

	keyAcquire   AcquireFunc[K]
	keyRelease   ReleaseFunc[K]
	valueAcquire AcquireFunc[V]
	valueRelease ReleaseFunc[V]

	initialCapacity uint32
}

// Option configures a table at construction time via the functional-options
// pattern (carried from the teacher's Option[K, V] / WithHashFunc).
type Option[K comparable, V any] func(t *table[K, V])

// WithHashFunc overrides the default hash function. The default, absent
// this option, is github.com/dolthub/maphash's generic Hasher (see
// WithStdHasher / dolthubHashFunc).
func WithHashFunc[K comparable, V any](f HashFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.hashFunc = f
	}
}

// WithStdHasher selects hash/maphash.Comparable as the hash backend
// instead of the dolthub/maphash default, for callers that want to avoid
// the extra dependency.
func WithStdHasher[K comparable, V any]() Option[K, V] {
	return func(t *table[K, V]) {
		t.hashFunc = defaultHashFunc[K]()
	}
}

// WithEqualFunc overrides the default (==) key equality test.
func WithEqualFunc[K comparable, V any](f EqualFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.eqFunc = f
	}
}

// WithInitialCapacity pre-sizes the table instead of starting at the
// minimum capacity (16), rounding up to the next power of two.
func WithInitialCapacity[K comparable, V any](capacity int) Option[K, V] {
	return func(t *table[K, V]) {
		if capacity > 0 {
			t.initialCapacity = uint32(capacity)
		}
	}
}

// WithKeyLifecycle installs acquire/release hooks for keys, spec §9's
// "host reference counting" abstraction.
func WithKeyLifecycle[K comparable, V any](acquire AcquireFunc[K], release ReleaseFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.keyAcquire = acquire
		t.keyRelease = release
	}
}

// WithValueLifecycle installs acquire/release hooks for values.
func WithValueLifecycle[K comparable, V any](acquire AcquireFunc[V], release ReleaseFunc[V]) Option[K, V] {
	return func(t *table[K, V]) {
		t.valueAcquire = acquire
		t.valueRelease = release
	}
}

func (t *table[K, V]) init(opts ...Option[K, V]) error {
	for _, opt := range opts {
		opt(t)
	}

	if t.hashFunc == nil {
		t.hashFunc = dolthubHashFunc[K]()
	}
	if t.eqFunc == nil {
		t.eqFunc = defaultEqualFunc[K]()
	}
	if t.keyAcquire == nil {
		t.keyAcquire = noopAcquire[K]
	}
	if t.keyRelease == nil {
		t.keyRelease = noopRelease[K]
	}
	if t.valueAcquire == nil {
		t.valueAcquire = noopAcquire[V]
	}
	if t.valueRelease == nil {
		t.valueRelease = noopRelease[V]
	}

	capacity := t.initialCapacity
	if capacity < groupSize {
		capacity = groupSize
	}
	capacity = NextPowerOf2(capacity)

	ctrls, err := allocCtrls(uintptr(capacity))
	if err != nil {
		return err
	}
	entries, err := allocEntries[K, V](uintptr(capacity))
	if err != nil {
		return err
	}

	t.ctrls = ctrls
	t.entries = entries
	t.capacity = uintptr(capacity)
	t.groupsMask = uintptr(capacity)/groupSize - 1
	t.effectiveCapacity = uintptr(capacity) * 7 / 8
	t.head = listEnd
	t.tail = listEnd

	return nil
}

func allocCtrls(capacity uintptr) (ctrls []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrOutOfMemory
		}
	}()

	ctrls = make([]byte, capacity)
	for i := range ctrls {
		ctrls[i] = slotEmpty
	}
	return ctrls, nil
}

func allocEntries[K comparable, V any](capacity uintptr) (entries []entry[K, V], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrOutOfMemory
		}
	}()

	entries = make([]entry[K, V], capacity)
	return entries, nil
}

// EffectiveCapacity returns the load-factor ceiling: set grows the table
// before an insert that would take the live count above it. Tombstones are
// not counted against it.
func (t *table[K, V]) EffectiveCapacity() int {
	return int(t.effectiveCapacity)
}

// Len returns the number of live entries.
func (t *table[K, V]) Len() int {
	return int(t.used)
}

// Stats reports a snapshot of the table's internal bookkeeping.
func (t *table[K, V]) Stats() Stats {
	var tombstonesCapacityRatio, tombstonesSizeRatio float32
	if t.capacity > 0 {
		tombstonesCapacityRatio = float32(t.tombstones) / float32(t.capacity)
	}
	if t.used > 0 {
		tombstonesSizeRatio = float32(t.tombstones) / float32(t.used)
	}

	return Stats{
		Size:                    int(t.used),
		Capacity:                int(t.capacity),
		EffectiveCapacity:       int(t.effectiveCapacity),
		Tombstones:              int(t.tombstones),
		TombstonesCapacityRatio: tombstonesCapacityRatio,
		TombstonesSizeRatio:     tombstonesSizeRatio,
	}
}

// get implements spec §4.3.
func (t *table[K, V]) get(key K) (V, bool, error) {
	var zero V

	h, err := safeHash(t.hashFunc, key)
	if err != nil {
		return zero, false, err
	}

	h1, h2 := HashSplit(h)
	mask := t.groupsMask
	start := h1 & mask

	for p, group := uintptr(0), start; p <= mask; p++ {
		off := group * groupSize
		lo, hi := loadGroup(t.ctrls, off)

		matches := matchH2Group(lo, hi, h2)
		for !matches.isEmpty() {
			slot := off + matches.first()

			eq, eerr := safeEqual(t.eqFunc, t.entries[slot].key, key)
			if eerr != nil {
				return zero, false, eerr
			}
			if eq {
				return t.entries[slot].value, true, nil
			}

			matches = matches.removeFirst()
		}

		if !matchEmptyGroup(lo, hi).isEmpty() {
			return zero, false, nil
		}

		group = (start + (p+1)*(p+2)/2) & mask
	}

	return zero, false, nil
}

// set implements spec §4.4 (insert/update), growing automatically when
// the load factor would be exceeded. isNew reports whether key was freshly
// inserted (true) or an existing binding was overwritten (false).
func (t *table[K, V]) set(key K, value V) (isNew bool, err error) {
	if t.used+1 > t.effectiveCapacity {
		if err := t.grow(); err != nil {
			return false, err
		}
	}

	h, err := safeHash(t.hashFunc, key)
	if err != nil {
		return false, err
	}

	h1, h2 := HashSplit(h)
	mask := t.groupsMask
	start := h1 & mask

	var (
		availSlot uintptr
		haveAvail bool
	)

	for p, group := uintptr(0), start; p <= mask; p++ {
		off := group * groupSize
		lo, hi := loadGroup(t.ctrls, off)

		matches := matchH2Group(lo, hi, h2)
		for !matches.isEmpty() {
			slot := off + matches.first()

			eq, eerr := safeEqual(t.eqFunc, t.entries[slot].key, key)
			if eerr != nil {
				return false, eerr
			}
			if eq {
				old := t.entries[slot].value
				t.entries[slot].value = t.valueAcquire(value)
				t.valueRelease(old)
				t.version++
				return false, nil
			}

			matches = matches.removeFirst()
		}

		if !haveAvail {
			if avail := matchEmptyOrDeletedGroup(lo, hi); !avail.isEmpty() {
				availSlot = off + avail.first()
				haveAvail = true
			}
		}

		if !matchEmptyGroup(lo, hi).isEmpty() {
			break
		}

		group = (start + (p+1)*(p+2)/2) & mask
	}

	if !haveAvail {
		// The load-factor invariant plus the grow() above guarantee a free
		// slot exists; reaching here means the table's bookkeeping is
		// inconsistent with its backing arrays.
		return false, ErrOutOfMemory
	}

	if t.ctrls[availSlot] == slotDeleted {
		t.tombstones--
	}

	t.ctrls[availSlot] = h2
	t.entries[availSlot] = entry[K, V]{
		key:   t.keyAcquire(key),
		value: t.valueAcquire(value),
		hash:  h,
		prev:  listEnd,
		next:  listEnd,
	}
	t.pushBack(int32(availSlot))
	t.used++
	t.version++

	return true, nil
}

// delete implements spec §4.5.
func (t *table[K, V]) delete(key K) (bool, error) {
	h, err := safeHash(t.hashFunc, key)
	if err != nil {
		return false, err
	}

	h1, h2 := HashSplit(h)
	mask := t.groupsMask
	start := h1 & mask

	for p, group := uintptr(0), start; p <= mask; p++ {
		off := group * groupSize
		lo, hi := loadGroup(t.ctrls, off)

		matches := matchH2Group(lo, hi, h2)
		for !matches.isEmpty() {
			slot := off + matches.first()

			eq, eerr := safeEqual(t.eqFunc, t.entries[slot].key, key)
			if eerr != nil {
				return false, eerr
			}
			if eq {
				t.removeSlot(slot, lo, hi)
				return true, nil
			}

			matches = matches.removeFirst()
		}

		if !matchEmptyGroup(lo, hi).isEmpty() {
			return false, nil
		}

		group = (start + (p+1)*(p+2)/2) & mask
	}

	return false, nil
}

// removeSlot performs spec §4.5 steps 2-5. lo/hi are the group's control
// words as loaded *before* this slot was cleared, so matchEmptyGroup still
// reflects whether any sibling slot already terminates the probe chain.
func (t *table[K, V]) removeSlot(slot uintptr, lo, hi uint64) {
	t.unlink(int32(slot))

	t.keyRelease(t.entries[slot].key)
	t.valueRelease(t.entries[slot].value)

	var zeroK K
	var zeroV V
	t.entries[slot] = entry[K, V]{key: zeroK, value: zeroV, prev: listEnd, next: listEnd}

	if !matchEmptyGroup(lo, hi).isEmpty() {
		t.ctrls[slot] = slotEmpty
	} else {
		t.ctrls[slot] = slotDeleted
		t.tombstones++
	}

	t.used--
	t.version++

	if t.used*2 < t.capacity && (t.tombstones > t.capacity/4 || t.targetCapacity() < t.capacity) {
		// Rehash failure here is non-fatal: the table remains valid at its
		// current (higher-tombstone) state, it just missed a chance to
		// reclaim space. The next delete that meets the same condition
		// tries again.
		//
		// The target capacity is recomputed from the live count rather than
		// held at t.capacity: a table that has shed most of its entries
		// sheds the oversized backing arrays too, not just swaps tombstones
		// for empties at the old size. A delete in a group that still holds
		// an EMPTY byte leaves no tombstone, so the rehash also fires when
		// targetCapacity() drops below the current capacity.
		_ = t.rehash(t.targetCapacity())
	}
}

// targetCapacity is "C' = max(16, next_pow2(used*2))" (spec §4.6), the
// capacity both growth and tombstone reclamation resize to.
func (t *table[K, V]) targetCapacity() uintptr {
	target := uint32(t.used) * 2
	if target < groupSize {
		target = groupSize
	}
	return uintptr(NextPowerOf2(target))
}

// grow doubles capacity per spec §4.6 ("C' = max(16, next_pow2(used*2))").
func (t *table[K, V]) grow() error {
	return t.rehash(t.targetCapacity())
}

// rehash implements spec §4.6's "allocate-new, reinsert-all, free-old"
// for both triggers: growth (newCapacity > capacity) and reclamation on
// delete (newCapacity == targetCapacity(), at most capacity). Entries are walked via the
// insertion-order list and reinserted in that order, rebuilding the list
// as they land so I4 survives without auxiliary storage.
func (t *table[K, V]) rehash(newCapacity uintptr) error {
	newCtrls, err := allocCtrls(newCapacity)
	if err != nil {
		return err
	}
	newEntries, err := allocEntries[K, V](newCapacity)
	if err != nil {
		return err
	}

	next := table[K, V]{
		ctrls:             newCtrls,
		entries:           newEntries,
		capacity:          newCapacity,
		groupsMask:        newCapacity/groupSize - 1,
		effectiveCapacity: newCapacity * 7 / 8,
		head:              listEnd,
		tail:              listEnd,
		hashFunc:          t.hashFunc,
		eqFunc:            t.eqFunc,
		keyAcquire:        t.keyAcquire,
		keyRelease:        t.keyRelease,
		valueAcquire:      t.valueAcquire,
		valueRelease:      t.valueRelease,
	}

	for slot := t.head; slot != listEnd; {
		e := &t.entries[slot]
		nextSlot := e.next
		next.reinsert(e.key, e.value, e.hash)
		slot = nextSlot
	}

	next.version = t.version + 1
	*t = next

	return nil
}

// reinsert places an already-owned {key, value, hash} triple during
// rehash. Shares transfer from the old table to the new one (spec §5):
// it must not call keyAcquire/valueAcquire, and the caller must not call
// keyRelease/valueRelease on the source slot.
func (t *table[K, V]) reinsert(key K, value V, hash uint64) {
	h1, h2 := HashSplit(hash)
	mask := t.groupsMask
	start := h1 & mask

	for p, group := uintptr(0), start; p <= mask; p++ {
		off := group * groupSize
		lo, hi := loadGroup(t.ctrls, off)

		if avail := matchEmptyOrDeletedGroup(lo, hi); !avail.isEmpty() {
			slot := off + avail.first()
			t.ctrls[slot] = h2
			t.entries[slot] = entry[K, V]{key: key, value: value, hash: hash, prev: listEnd, next: listEnd}
			t.pushBack(int32(slot))
			t.used++
			return
		}

		group = (start + (p+1)*(p+2)/2) & mask
	}

	panic("swissmap: rehash invariant violated: no available slot found for reinsert")
}

// destroy releases every live key and value in insertion order, then
// drops the backing arrays (spec §3 "Lifecycle").
func (t *table[K, V]) destroy() {
	for slot := t.head; slot != listEnd; {
		e := &t.entries[slot]
		next := e.next
		t.keyRelease(e.key)
		t.valueRelease(e.value)
		slot = next
	}

	t.ctrls = nil
	t.entries = nil
	t.used = 0
	t.tombstones = 0
	t.head = listEnd
	t.tail = listEnd
	t.version++
}
