package boot

import "encoding/binary"

// dtbBuilder assembles a minimal, complete DTB image for orchestrator tests:
// a 40-byte header, an empty reservation block, the structure block built
// by the caller, and a strings block with one entry per distinct property
// name used.
type dtbBuilder struct {
	structure []byte
	strings   []byte
	stringOff map[string]uint32
}

func newDTBBuilder() *dtbBuilder {
	return &dtbBuilder{stringOff: map[string]uint32{}}
}

func (b *dtbBuilder) putU32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.structure = append(b.structure, tmp[:]...)
}

func (b *dtbBuilder) pad4() {
	for len(b.structure)%4 != 0 {
		b.structure = append(b.structure, 0)
	}
}

func (b *dtbBuilder) beginNode(name string) {
	b.putU32(1)
	b.structure = append(b.structure, name...)
	b.structure = append(b.structure, 0)
	b.pad4()
}

func (b *dtbBuilder) endNode() {
	b.putU32(2)
}

func (b *dtbBuilder) stringOffset(name string) uint32 {
	if off, ok := b.stringOff[name]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, name...)
	b.strings = append(b.strings, 0)
	b.stringOff[name] = off
	return off
}

func (b *dtbBuilder) propU32(name string, v uint32) {
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], v)
	b.prop(name, data[:])
}

func (b *dtbBuilder) propReg(name string, cells ...uint64) {
	var data []byte
	for _, c := range cells {
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(c))
		data = append(data, tmp[:]...)
	}
	b.prop(name, data)
}

func (b *dtbBuilder) prop(name string, data []byte) {
	b.putU32(3)
	b.putU32(uint32(len(data)))
	b.putU32(b.stringOffset(name))
	b.structure = append(b.structure, data...)
	b.pad4()
}

func (b *dtbBuilder) build() []byte {
	b.putU32(9) // END

	const headerSize = 40
	reservationOff := uint32(headerSize)
	reservationBlock := make([]byte, 16) // single zero terminator entry
	structureOff := reservationOff + uint32(len(reservationBlock))
	stringsOff := structureOff + uint32(len(b.structure))
	total := stringsOff + uint32(len(b.strings))

	buf := make([]byte, total)
	binary.BigEndian.PutUint32(buf[0:], 0xd00dfeed)
	binary.BigEndian.PutUint32(buf[4:], total)
	binary.BigEndian.PutUint32(buf[8:], structureOff)
	binary.BigEndian.PutUint32(buf[12:], stringsOff)
	binary.BigEndian.PutUint32(buf[16:], reservationOff)
	binary.BigEndian.PutUint32(buf[20:], 17) // version
	binary.BigEndian.PutUint32(buf[24:], 17) // last_compatible_version
	binary.BigEndian.PutUint32(buf[28:], 0)  // boot cpu id
	binary.BigEndian.PutUint32(buf[32:], uint32(len(b.strings)))
	binary.BigEndian.PutUint32(buf[36:], uint32(len(b.structure)))

	copy(buf[reservationOff:], reservationBlock)
	copy(buf[structureOff:], b.structure)
	copy(buf[stringsOff:], b.strings)
	return buf
}
