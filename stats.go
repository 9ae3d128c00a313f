package swissmap

// Stats is a point-in-time snapshot of a table's internal bookkeeping,
// useful for diagnostics and for the growth/rehash property tests.
type Stats struct {
	Size                    int
	Capacity                int
	EffectiveCapacity       int
	Tombstones              int
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}
