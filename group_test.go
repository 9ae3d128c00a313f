package swissmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadGroup(t *testing.T) {
	ctrls := make([]byte, groupSize*2)
	for i := range ctrls {
		ctrls[i] = slotEmpty
	}
	ctrls[groupSize+3] = 0x42  // lo half of the second group
	ctrls[groupSize+8+1] = 0x7 // hi half of the second group

	lo, hi := loadGroup(ctrls, groupSize)

	require.Equal(t, uint64(0x42)<<(8*3), lo&(uint64(0xFF)<<(8*3)))
	require.Equal(t, uint64(0x07)<<(8*1), hi&(uint64(0xFF)<<(8*1)))
}
