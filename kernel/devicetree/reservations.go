package devicetree

// WalkReservations enumerates the memory-reservation block: a contiguous
// array of (address, size) big-endian uint64 pairs, terminated by an
// all-zero entry. visit is invoked once per non-terminating entry, in
// order; the walk stops early if visit returns false.
func (h *Header) WalkReservations(visit func(addr, size uint64) bool) {
	c := cursor{buf: h.buf}
	off := h.MemoryReservationBlockOffset

	for {
		addr, ok := c.readU64(off)
		if !ok {
			return
		}
		size, ok := c.readU64(off + 8)
		if !ok {
			return
		}
		if addr == 0 && size == 0 {
			return
		}
		if !visit(addr, size) {
			return
		}
		off += 16
	}
}
