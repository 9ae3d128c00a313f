package swissmap

// entry is the payload at one occupied (or formerly occupied) slot: the
// key/value pair, the cached full hash (so growth and rehash never call
// HashFunc again), and the slot indices threading the insertion-order
// list through occupied slots (spec §3, §9 "intrusive linked list via raw
// pointers" rearchitected as indices so the list survives growth).
type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
	prev  int32
	next  int32
}

// listEnd is the sentinel slot index marking "no neighbor" at either end
// of the insertion-order list.
const listEnd int32 = -1

// AcquireFunc and ReleaseFunc are the host reference-counting hooks from
// spec §6/§9. In a garbage-collected implementation they are no-ops by
// default; a host embedding this table around externally refcounted
// payloads (cgo handles, pooled buffers) can supply real ones via
// WithKeyLifecycle / WithValueLifecycle. The table calls acquire exactly
// once per share it creates (insert, overwrite, growth migration does NOT
// re-acquire — shares transfer) and release exactly once per share it
// drops (overwrite's old value, delete, destroy).
type AcquireFunc[T any] func(T) T
type ReleaseFunc[T any] func(T)

func noopAcquire[T any](v T) T { return v }
func noopRelease[T any](T)     {}
