package devicetree

// CellInfo carries the #address-cells/#size-cells in effect for a node's
// reg-shaped properties. Declared by a node, a CellInfo governs that node's
// children, not the declaring node's own properties — the child-scope
// interpretation of the devicetree specification's inheritance rule.
type CellInfo struct {
	AddressCells uint32
	SizeCells    uint32
}

// defaultCellInfo is used for the root node's own properties, which have no
// enclosing node to inherit from.
var defaultCellInfo = CellInfo{AddressCells: 2, SizeCells: 1}

// Property is a view over one PROP token's payload: the decoded name and a
// slice of the underlying DTB buffer holding its raw data. Data is never
// copied.
type Property struct {
	Name string
	Data []byte
}

// AsU32 reinterprets the property's first 4 bytes as a big-endian uint32.
func (p Property) AsU32() (uint32, bool) {
	if len(p.Data) < 4 {
		return 0, false
	}
	return uint32(p.Data[0])<<24 | uint32(p.Data[1])<<16 | uint32(p.Data[2])<<8 | uint32(p.Data[3]), true
}

// AsReg interprets the property's data as a sequence of (address, size)
// pairs under the supplied cell info: each address occupies
// cells.AddressCells*4 bytes, each size cells.SizeCells*4 bytes, each cell a
// big-endian uint32 combined into the composite value by shifting the
// running total left 32 bits per cell, most-significant cell first. visit
// is invoked once per complete entry, in order, until the data is
// exhausted; it stops early if visit returns false.
func (p Property) AsReg(cells CellInfo, visit func(addr, size uint64) bool) {
	entryWidth := int(cells.AddressCells+cells.SizeCells) * 4
	if entryWidth == 0 {
		return
	}

	data := p.Data
	for len(data) >= entryWidth {
		var addr, size uint64
		off := 0
		for i := uint32(0); i < cells.AddressCells; i++ {
			addr = addr<<32 | uint64(be32(data[off:off+4]))
			off += 4
		}
		for i := uint32(0); i < cells.SizeCells; i++ {
			size = size<<32 | uint64(be32(data[off:off+4]))
			off += 4
		}

		if !visit(addr, size) {
			return
		}
		data = data[entryWidth:]
	}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
