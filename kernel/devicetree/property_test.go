package devicetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyAsU32(t *testing.T) {
	p := Property{Data: []byte{0x00, 0x00, 0x01, 0x00}}
	v, ok := p.AsU32()
	assert.True(t, ok)
	assert.EqualValues(t, 0x100, v)
}

func TestPropertyAsU32TooShort(t *testing.T) {
	p := Property{Data: []byte{0x00, 0x01}}
	_, ok := p.AsU32()
	assert.False(t, ok)
}

func TestPropertyAsRegMultipleEntries(t *testing.T) {
	data := append(beU64Pair(0x1000, 0x2000), beU64Pair(0x3000, 0x4000)...)
	p := Property{Data: data}

	type entry struct{ addr, size uint64 }
	var got []entry
	p.AsReg(CellInfo{AddressCells: 2, SizeCells: 2}, func(addr, size uint64) bool {
		got = append(got, entry{addr, size})
		return true
	})

	assert.Equal(t, []entry{{0x1000, 0x2000}, {0x3000, 0x4000}}, got)
}

func TestPropertyAsRegSingleCellEach(t *testing.T) {
	data := []byte{0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x20, 0x00}
	p := Property{Data: data}

	var addr, size uint64
	p.AsReg(CellInfo{AddressCells: 1, SizeCells: 1}, func(a, s uint64) bool {
		addr, size = a, s
		return true
	})

	assert.EqualValues(t, 0x1000, addr)
	assert.EqualValues(t, 0x2000, size)
}
