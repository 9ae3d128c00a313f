package swissmap

// Set is a Map specialized to store only keys (values are struct{}),
// adapted from the teacher's StableSet but growing automatically like
// Map instead of erroring when full.
type Set[K comparable] struct {
	table[K, struct{}]
}

// NewSet constructs an empty Set.
func NewSet[K comparable](opts ...Option[K, struct{}]) *Set[K] {
	var s Set[K]
	if err := s.init(opts...); err != nil {
		panic(err)
	}
	return &s
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.table.Len()
}

// Has reports whether key is in the set.
func (s *Set[K]) Has(key K) (bool, error) {
	_, ok, err := s.table.get(key)
	return ok, err
}

// Put adds key to the set, growing the table first if necessary. isNew
// reports whether key was not already present.
func (s *Set[K]) Put(key K) (isNew bool, err error) {
	return s.table.set(key, struct{}{})
}

// Delete removes key, reporting whether it was present.
func (s *Set[K]) Delete(key K) (bool, error) {
	return s.table.delete(key)
}

// Keys returns an iterator over keys in insertion order.
func (s *Set[K]) Keys() *KeyIterator[K, struct{}] {
	return newKeyIterator(&s.table)
}
