package swissmap

import "math/bits"

const (
	bitsetLSB = 0x0101010101010101
	bitsetMSB = 0x8080808080808080
)

// bitset represents a set of slots within one 8-byte half of a group.
//
// The underlying representation uses one byte per slot, where each byte is
// either 0x80 if the slot is part of the set or 0x00 otherwise. This makes
// it convenient to calculate for eight slots at once (e.g. see matchEmpty).
type bitset uint64

// first assumes that only the MSB of each control byte can be set (e.g.
// bitset is the result of matchEmpty or similar) and returns the relative
// index, within this half, of the first control byte that has the MSB set.
//
// Returns 8 if the bitset is 0.
func (b bitset) first() uintptr {
	return uintptr(bits.TrailingZeros64(uint64(b)) >> 3)
}

// removeFirst resets the lowest set lane (one byte) to 0.
func (b bitset) removeFirst() bitset {
	return b & ^(bitset(slotEmpty) << (bits.TrailingZeros64(uint64(b)) & ^7))
}

//go:inline
func matchH2(word uint64, h2 uint8) bitset {
	v := word ^ (bitsetLSB * uint64(h2))
	return bitset(((v - bitsetLSB) &^ v) & bitsetMSB)
}

// matchEmpty: Check if MSB is 1 AND bit 1 is 0.
// (0x80 is 10000000, bit 1 is 0. 0xFE is 11111110, bit 1 is 1)
//
//go:inline
func matchEmpty(word uint64) bitset {
	return bitset((word &^ (word << 6)) & bitsetMSB)
}

// matchEmptyOrDeleted: Just check if the MSB is 1.
// (Both 0x80 and 0xFE have it, Full slots don't)
//
//go:inline
func matchEmptyOrDeleted(word uint64) bitset {
	return bitset(word & bitsetMSB)
}

// groupMask combines the two 8-lane bitsets produced against a 16-byte
// group's low and high halves into one logical 16-lane match result, with
// lane 0 the lowest bit (lowest control byte) as required by §4.2's
// ascending-bit-position scan order.
type groupMask struct {
	lo, hi bitset
}

func (m groupMask) isEmpty() bool {
	return m.lo == 0 && m.hi == 0
}

// first returns the index, in [0, groupSize), of the lowest set lane.
// Only valid when !m.isEmpty().
func (m groupMask) first() uintptr {
	if m.lo != 0 {
		return m.lo.first()
	}
	return m.hi.first() + 8
}

// removeFirst clears the lowest set lane.
func (m groupMask) removeFirst() groupMask {
	if m.lo != 0 {
		return groupMask{lo: m.lo.removeFirst(), hi: m.hi}
	}
	return groupMask{lo: m.lo, hi: m.hi.removeFirst()}
}

func matchH2Group(lo, hi uint64, h2 uint8) groupMask {
	return groupMask{lo: matchH2(lo, h2), hi: matchH2(hi, h2)}
}

func matchEmptyGroup(lo, hi uint64) groupMask {
	return groupMask{lo: matchEmpty(lo), hi: matchEmpty(hi)}
}

func matchEmptyOrDeletedGroup(lo, hi uint64) groupMask {
	return groupMask{lo: matchEmptyOrDeleted(lo), hi: matchEmptyOrDeleted(hi)}
}
