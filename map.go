package swissmap

// Map is an ordered associative container: a Swiss Table mapping
// comparable keys to arbitrary values that grows automatically under
// load and preserves insertion order on iteration (spec §1).
//
// A Map is not safe for concurrent use: at most one writer and no
// concurrent readers, matching spec §5.
type Map[K comparable, V any] struct {
	table[K, V]
}

// New constructs an empty Map. Capacity starts at 16 and doubles
// automatically as entries are inserted; use WithInitialCapacity to
// pre-size it.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	var m Map[K, V]
	if err := m.init(opts...); err != nil {
		// init only fails on allocation failure for the initial (minimum
		// 16-slot) table; treat that the same way make() itself would.
		panic(err)
	}
	return &m
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	return m.table.Len()
}

// Get looks up key, returning its value and true, or the zero value and
// false if key is absent. A non-nil error indicates the configured hash
// or equality function failed (spec §6/§7); in that case the bool result
// is meaningless.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	return m.table.get(key)
}

// Set inserts or overwrites key's value, growing the table first if
// necessary. A non-nil error is ErrOutOfMemory (growth failed) or a
// hash/equality failure from a caller-supplied option.
func (m *Map[K, V]) Set(key K, value V) error {
	_, err := m.table.set(key, value)
	return err
}

// Delete removes key, reporting whether it was present. A non-nil error
// indicates a hash/equality failure; ok is meaningless in that case.
func (m *Map[K, V]) Delete(key K) (bool, error) {
	return m.table.delete(key)
}

// Stats reports a snapshot of the table's internal bookkeeping.
func (m *Map[K, V]) Stats() Stats {
	return m.table.Stats()
}

// Keys returns an iterator over keys in insertion order.
func (m *Map[K, V]) Keys() *KeyIterator[K, V] {
	return newKeyIterator(&m.table)
}

// Values returns an iterator over values in insertion order.
func (m *Map[K, V]) Values() *ValueIterator[K, V] {
	return newValueIterator(&m.table)
}

// Items returns an iterator over key/value pairs in insertion order.
func (m *Map[K, V]) Items() *ItemIterator[K, V] {
	return newItemIterator(&m.table)
}

// Destroy releases every live key and value share (via the configured
// lifecycle hooks) in insertion order, then drops the backing arrays.
// The map must not be used afterward.
func (m *Map[K, V]) Destroy() {
	m.table.destroy()
}
