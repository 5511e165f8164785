// Package devicetree parses a flattened devicetree blob (DTB) in place: the
// header, the memory-reservation block, and the structure/strings blocks
// that describe the hardware topology. Like the multiboot reader it is
// modeled on, it never allocates and never copies the backing buffer; it
// only ever reads through a bounds-checked cursor over it.
package devicetree

const (
	magic = 0xd00dfeed

	// minVersion is the lowest structure-block version this reader
	// understands. The reader also requires last_compatible_version to
	// be at most this value, so that a v17-compatible producer can never
	// hand us a structure block shaped in a way we don't recognize.
	minVersion = 17

	headerSize = 40
)

// Header is the 40-byte fixed-layout record at the base of a DTB. All
// fields are native-endian after parsing even though the wire format is
// big-endian.
type Header struct {
	Magic                      uint32
	TotalSize                  uint32
	StructureBlockOffset       uint32
	StringsBlockOffset         uint32
	MemoryReservationBlockOffset uint32
	Version                    uint32
	LastCompatibleVersion      uint32
	BootCPUPhysicalID          uint32
	StringsBlockSize           uint32
	StructureBlockSize         uint32

	// buf is the entire DTB image, from offset 0. All block offsets in
	// this struct are relative to buf[0].
	buf []byte
}

// ParseHeader reads and validates the DTB header found at the start of buf.
// It returns ok=false if buf is too short, the magic number doesn't match,
// or the blob declares a structure-block version this reader doesn't
// understand.
func ParseHeader(buf []byte) (Header, bool) {
	if len(buf) < headerSize {
		return Header{}, false
	}

	c := cursor{buf: buf}
	var h Header
	h.Magic, _ = c.readU32(0)
	h.TotalSize, _ = c.readU32(4)
	h.StructureBlockOffset, _ = c.readU32(8)
	h.StringsBlockOffset, _ = c.readU32(12)
	h.MemoryReservationBlockOffset, _ = c.readU32(16)
	h.Version, _ = c.readU32(20)
	h.LastCompatibleVersion, _ = c.readU32(24)
	h.BootCPUPhysicalID, _ = c.readU32(28)
	h.StringsBlockSize, _ = c.readU32(32)
	h.StructureBlockSize, _ = c.readU32(36)

	if h.Magic != magic {
		return Header{}, false
	}
	if h.LastCompatibleVersion > minVersion {
		return Header{}, false
	}
	if uint64(h.TotalSize) > uint64(len(buf)) {
		return Header{}, false
	}

	h.buf = buf[:h.TotalSize]
	return h, true
}
