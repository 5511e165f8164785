package devicetree

import "encoding/binary"

// testBuilder assembles a synthetic DTB image for use by this package's
// tests. It deliberately does not reuse any production decoding code.
type testBuilder struct {
	reservations []byte
	structure    []byte
	strings      []byte
	stringOff    map[string]uint32
}

func newTestBuilder() *testBuilder {
	return &testBuilder{stringOff: make(map[string]uint32)}
}

func (b *testBuilder) putU32(buf *[]byte, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	*buf = append(*buf, tmp[:]...)
}

func (b *testBuilder) pad4(buf *[]byte) {
	for len(*buf)%4 != 0 {
		*buf = append(*buf, 0)
	}
}

func (b *testBuilder) addReservation(addr, size uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], addr)
	b.reservations = append(b.reservations, tmp[:]...)
	binary.BigEndian.PutUint64(tmp[:], size)
	b.reservations = append(b.reservations, tmp[:]...)
}

func (b *testBuilder) endReservations() {
	b.reservations = append(b.reservations, make([]byte, 16)...)
}

func (b *testBuilder) beginNode(name string) {
	b.putU32(&b.structure, tokenBeginNode)
	b.structure = append(b.structure, name...)
	b.structure = append(b.structure, 0)
	b.pad4(&b.structure)
}

func (b *testBuilder) endNode() {
	b.putU32(&b.structure, tokenEndNode)
}

func (b *testBuilder) nopToken() {
	b.putU32(&b.structure, tokenNop)
}

func (b *testBuilder) stringOffset(s string) uint32 {
	if off, ok := b.stringOff[s]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, s...)
	b.strings = append(b.strings, 0)
	b.stringOff[s] = off
	return off
}

func (b *testBuilder) propU32(name string, value uint32) {
	b.putU32(&b.structure, tokenProp)
	b.putU32(&b.structure, 4)
	b.putU32(&b.structure, b.stringOffset(name))
	b.putU32(&b.structure, value)
}

func (b *testBuilder) propRaw(name string, data []byte) {
	b.putU32(&b.structure, tokenProp)
	b.putU32(&b.structure, uint32(len(data)))
	b.putU32(&b.structure, b.stringOffset(name))
	b.structure = append(b.structure, data...)
	b.pad4(&b.structure)
}

func (b *testBuilder) endStructure() {
	b.putU32(&b.structure, tokenEnd)
}

// build assembles the final DTB image.
func (b *testBuilder) build() []byte {
	b.endReservations()
	b.pad4(&b.strings)

	const hdrSize = 40
	memRsvOff := uint32(hdrSize)
	structOff := memRsvOff + uint32(len(b.reservations))
	stringsOff := structOff + uint32(len(b.structure))
	total := stringsOff + uint32(len(b.strings))

	buf := make([]byte, total)
	put := func(off uint32, v uint32) {
		binary.BigEndian.PutUint32(buf[off:], v)
	}

	put(0, magic)
	put(4, total)
	put(8, structOff)
	put(12, stringsOff)
	put(16, memRsvOff)
	put(20, 17)
	put(24, 16)
	put(28, 0)
	put(32, uint32(len(b.strings)))
	put(36, uint32(len(b.structure)))

	copy(buf[memRsvOff:], b.reservations)
	copy(buf[structOff:], b.structure)
	copy(buf[stringsOff:], b.strings)

	return buf
}
