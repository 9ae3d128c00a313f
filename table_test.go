package swissmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable[K comparable, V any](t *testing.T, opts ...Option[K, V]) *table[K, V] {
	t.Helper()

	var tt table[K, V]
	require.NoError(t, tt.init(opts...))

	return &tt
}

func TestTable_init(t *testing.T) {
	tt := newTable[uint64, struct{}](t, WithInitialCapacity[uint64, struct{}](4096))

	require.Equal(t, uintptr(4096), tt.capacity)
	require.Equal(t, uintptr(4096/groupSize-1), tt.groupsMask)
}

func TestTable_init_MinimumCapacity(t *testing.T) {
	tt := newTable[uint64, struct{}](t)

	require.Equal(t, uintptr(groupSize), tt.capacity)
}

func TestTable_EffectiveCapacity(t *testing.T) {
	tt := newTable[uint64, struct{}](t, WithInitialCapacity[uint64, struct{}](4096))

	require.Equal(t, 4096*7/8, tt.EffectiveCapacity())
}

func TestTable_set(t *testing.T) {
	tt := newTable[string, string](t)

	isNew, err := tt.set("foo", "bar")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = tt.set("foo", "bar2")
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok, err := tt.get("foo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bar2", v)
}

func TestTable_set_GrowsAutomatically(t *testing.T) {
	tt := newTable[uint64, uint64](t, WithInitialCapacity[uint64, uint64](16))

	startCapacity := tt.capacity

	for i := uint64(0); i < 100; i++ {
		isNew, err := tt.set(i, i*i)
		require.NoError(t, err)
		require.True(t, isNew)
	}

	require.Greater(t, tt.capacity, startCapacity)
	require.Equal(t, 100, tt.Len())

	for i := uint64(0); i < 100; i++ {
		v, ok, err := tt.get(i)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, i*i, v)
	}
}

func TestTable_set_TombstoneBridge(t *testing.T) {
	// All keys collide on group 0. A, B and 14 fillers fill that group, so
	// C lands in the next group of the probe sequence; deleting B then
	// leaves a tombstone (group 0 has no EMPTY byte) that the lookup of C
	// must probe past.
	collisionHash := func(string) uint64 { return 0 }

	tt := newTable[string, string](t,
		WithHashFunc[string, string](collisionHash),
		WithInitialCapacity[string, string](2*groupSize),
	)

	_, err := tt.set("A", "foo")
	require.NoError(t, err)
	_, err = tt.set("B", "bar")
	require.NoError(t, err)
	for i := 0; i < groupSize-2; i++ {
		_, err = tt.set(string(rune('a'+i)), "filler")
		require.NoError(t, err)
	}
	_, err = tt.set("C", "lol")
	require.NoError(t, err)

	ok, err := tt.delete("B")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uintptr(1), tt.tombstones)

	v, ok, err := tt.get("C")
	require.NoError(t, err)
	require.True(t, ok, "probe chain broken: could not find C after deleting B")
	require.Equal(t, "lol", v)
}

func TestTable_delete_NotFound(t *testing.T) {
	tt := newTable[string, string](t)

	ok, err := tt.delete("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTable_delete_TriggersShrinkingRehash(t *testing.T) {
	tt := newTable[int, int](t, WithInitialCapacity[int, int](64))

	effectiveCapacityBefore := tt.EffectiveCapacity()
	for i := 0; i < effectiveCapacityBefore; i++ {
		_, err := tt.set(i, i)
		require.NoError(t, err)
	}

	// Delete all but one key. Once the live count is low enough that
	// targetCapacity() falls below the current capacity (or tombstones pass
	// C/4 while used is below C/2), removeSlot rehashes into smaller
	// backing arrays. The survivor is the last key inserted, so its identity (not just its
	// count) is known after reclamation shrinks the table.
	lastKey := effectiveCapacityBefore - 1
	deleteUpTo := effectiveCapacityBefore - 1
	for i := 0; i < deleteUpTo; i++ {
		ok, err := tt.delete(i)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.Less(t, tt.capacity, uintptr(64), "reclamation should have shrunk the oversized backing arrays")
	// P7: after a delete that pushes used below C/2 with tombstones > C/4,
	// the very next operation either rehashes (tombstones observably 0)
	// or the table still satisfies the same trigger condition.
	require.Truef(t,
		tt.tombstones == 0 || (tt.used*2 < tt.capacity && tt.tombstones > tt.capacity/4),
		"tombstones=%d capacity=%d used=%d", tt.tombstones, tt.capacity, tt.used,
	)

	v, ok, err := tt.get(lastKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, lastKey, v)
}

func TestTable_InsertionOrderSurvivesGrowthAndRehash(t *testing.T) {
	tt := newTable[int, int](t, WithInitialCapacity[int, int](16))

	var want []int
	for i := 0; i < 200; i++ {
		_, err := tt.set(i, i)
		require.NoError(t, err)
		want = append(want, i)
	}

	// Delete every third key, then reinsert it, which should move it to
	// the tail of the insertion order.
	for i := 0; i < 200; i += 3 {
		ok, err := tt.delete(i)
		require.NoError(t, err)
		require.True(t, ok)
	}
	want = want[:0]
	for i := 0; i < 200; i++ {
		if i%3 != 0 {
			want = append(want, i)
		}
	}
	for i := 0; i < 200; i += 3 {
		_, err := tt.set(i, i)
		require.NoError(t, err)
		want = append(want, i)
	}

	var got []int
	for slot := tt.head; slot != listEnd; slot = tt.entries[slot].next {
		got = append(got, tt.entries[slot].key)
	}

	require.Equal(t, want, got)
}

func TestTable_destroy_ReleasesEveryShare(t *testing.T) {
	var released []string

	tt := newTable[string, string](t,
		WithKeyLifecycle[string, string](noopAcquire[string], func(k string) {
			released = append(released, k)
		}),
	)

	_, err := tt.set("a", "1")
	require.NoError(t, err)
	_, err = tt.set("b", "2")
	require.NoError(t, err)

	tt.destroy()

	require.Equal(t, []string{"a", "b"}, released)
	require.Equal(t, 0, tt.Len())
}
