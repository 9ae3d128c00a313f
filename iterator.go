package swissmap

// iteratorCore threads the shared cursor/version-interlock logic behind
// KeyIterator, ValueIterator and ItemIterator (spec §4.7): a reference to
// the table, a cursor along the insertion-order list, and a snapshot of
// the table's version taken at creation. Once either a concurrent
// modification or the end of the list is observed, the iterator is
// permanently stuck on that outcome.
type iteratorCore[K comparable, V any] struct {
	t       *table[K, V]
	version uint64
	cursor  int32
	started bool
	final   error
}

func newIteratorCore[K comparable, V any](t *table[K, V]) iteratorCore[K, V] {
	return iteratorCore[K, V]{t: t, version: t.version, cursor: listEnd}
}

// advance moves the cursor to the next occupied slot in insertion order,
// or returns the iterator's terminal error (ErrConcurrentModification or
// ErrIteratorDone) once reached.
func (it *iteratorCore[K, V]) advance() (int32, error) {
	if it.final != nil {
		return listEnd, it.final
	}

	if it.t.version != it.version {
		it.final = ErrConcurrentModification
		return listEnd, it.final
	}

	var next int32
	if !it.started {
		next = it.t.head
		it.started = true
	} else {
		next = it.t.entries[it.cursor].next
	}

	if next == listEnd {
		it.final = ErrIteratorDone
		return listEnd, it.final
	}

	it.cursor = next
	return next, nil
}

// KeyIterator walks a table's keys in insertion order.
type KeyIterator[K comparable, V any] struct {
	core iteratorCore[K, V]
}

func newKeyIterator[K comparable, V any](t *table[K, V]) *KeyIterator[K, V] {
	return &KeyIterator[K, V]{core: newIteratorCore(t)}
}

// Next returns the next key, or an error (ErrIteratorDone at the end,
// ErrConcurrentModification if the table was mutated since creation).
func (it *KeyIterator[K, V]) Next() (K, error) {
	slot, err := it.core.advance()
	if err != nil {
		var zero K
		return zero, err
	}
	return it.core.t.entries[slot].key, nil
}

// ValueIterator walks a table's values in insertion order.
type ValueIterator[K comparable, V any] struct {
	core iteratorCore[K, V]
}

func newValueIterator[K comparable, V any](t *table[K, V]) *ValueIterator[K, V] {
	return &ValueIterator[K, V]{core: newIteratorCore(t)}
}

// Next returns the next value, or an error as KeyIterator.Next.
func (it *ValueIterator[K, V]) Next() (V, error) {
	slot, err := it.core.advance()
	if err != nil {
		var zero V
		return zero, err
	}
	return it.core.t.entries[slot].value, nil
}

// Item is one key/value pair yielded by ItemIterator.
type Item[K comparable, V any] struct {
	Key   K
	Value V
}

// ItemIterator walks a table's key/value pairs in insertion order.
type ItemIterator[K comparable, V any] struct {
	core iteratorCore[K, V]
}

func newItemIterator[K comparable, V any](t *table[K, V]) *ItemIterator[K, V] {
	return &ItemIterator[K, V]{core: newIteratorCore(t)}
}

// Next returns the next key/value pair, or an error as KeyIterator.Next.
func (it *ItemIterator[K, V]) Next() (Item[K, V], error) {
	slot, err := it.core.advance()
	if err != nil {
		return Item[K, V]{}, err
	}
	e := &it.core.t.entries[slot]
	return Item[K, V]{Key: e.key, Value: e.value}, nil
}
