package swissmap

import (
	"testing"

	"pgregory.net/rand"
)

func setupBenchData(n int) []uint64 {
	data := make([]uint64, n)
	rng := rand.New(0)
	for i := range data {
		data[i] = rng.Uint64()
	}
	return data
}

func BenchmarkSet_Has(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity / 2)
	ss := NewSet[uint64](WithInitialCapacity[uint64, struct{}](capacity))
	for _, k := range keys {
		_, _ = ss.Put(k)
	}

	for i := 0; b.Loop(); i++ {
		_, _ = ss.Has(uint64(i))
	}
}

func BenchmarkStdMap_Has(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity / 2)
	m := make(map[uint64]struct{}, capacity)
	for _, k := range keys {
		m[k] = struct{}{}
	}

	for i := 0; b.Loop(); i++ {
		_ = m[uint64(i)]
	}
}

func BenchmarkSet_Put(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity)
	ss := NewSet[uint64](WithInitialCapacity[uint64, struct{}](capacity))

	for i := 0; b.Loop(); i++ {
		_, _ = ss.Put(keys[i%len(keys)])
	}
}

func BenchmarkStdMap_Put(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity)
	m := make(map[uint64]struct{}, capacity)

	for i := 0; b.Loop(); i++ {
		if len(m) >= capacity*7/8 {
			b.StopTimer()
			for k := range m {
				delete(m, k)
			}
			b.StartTimer()
		}
		m[keys[i%len(keys)]] = struct{}{}
	}
}

func BenchmarkSet_Delete(b *testing.B) {
	const size = 1000
	ss := NewSet[int]()
	for i := range size {
		_, _ = ss.Put(i)
	}

	for i := 0; b.Loop(); i++ {
		_, _ = ss.Delete(i % size)
	}
}

func BenchmarkStdMap_Delete(b *testing.B) {
	const size = 1000
	m := make(map[int]struct{}, size)
	for i := range size {
		m[i] = struct{}{}
	}

	for i := 0; b.Loop(); i++ {
		delete(m, i%size)
	}
}

func BenchmarkMap_Set(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity)
	m := New[uint64, uint64](WithInitialCapacity[uint64, uint64](capacity))

	for i := 0; b.Loop(); i++ {
		_ = m.Set(keys[i%len(keys)], uint64(i))
	}
}

func BenchmarkStdMap_SetGeneric(b *testing.B) {
	const capacity = 8192
	keys := setupBenchData(capacity)
	m := make(map[uint64]uint64, capacity)

	for i := 0; b.Loop(); i++ {
		m[keys[i%len(keys)]] = uint64(i)
	}
}
