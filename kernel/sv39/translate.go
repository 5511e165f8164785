package sv39

const pageOffsetMask = uint64(1<<12 - 1)

// Translate walks root following va's three level indices and returns the
// physical address va maps to. ok is false if any level's PTE is invalid.
// A leaf found before level 0 is a superpage (megapage or gigapage); its
// low-order virtual address bits are preserved rather than taken from the
// table.
func Translate(root *Table, va uint64) (pa uint64, ok bool) {
	vpn := VPNFromAddr(va)
	indices := [3]uint64{vpn.Level2(), vpn.Level1(), vpn.Level0()}
	table := root

	for level := 0; level < 3; level++ {
		e := table.entry(indices[level])
		if !e.IsValid() {
			return 0, false
		}
		if e.IsLeaf() {
			// The walk starts at the root (Sv39 level 2), so the
			// Sv39 level of this entry is 2-level.
			return leafAddress(e, 2-level, va), true
		}
		if level == 2 {
			return 0, false
		}
		table = tableAt(e.PPN())
	}
	return 0, false
}

// leafAddress reconstructs the physical address a leaf found at the given
// level (0, 1 or 2) maps va to.
func leafAddress(e PTE, level int, va uint64) uint64 {
	base := uint64(e.PPN()) << 12
	switch level {
	case 0:
		return base | (va & pageOffsetMask)
	case 1:
		const megapageMask = 1<<21 - 1
		return (base &^ megapageMask) | (va & megapageMask)
	default: // level 2: gigapage
		const gigapageMask = 1<<30 - 1
		return (base &^ gigapageMask) | (va & gigapageMask)
	}
}
