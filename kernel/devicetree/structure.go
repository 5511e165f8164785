package devicetree

const (
	tokenBeginNode = 1
	tokenEndNode   = 2
	tokenProp      = 3
	tokenNop       = 4
	tokenEnd       = 9

	// maxDepth bounds the node nesting this reader will track cell-info
	// inheritance for. A fixed array keeps the walk allocation-free,
	// matching the fixed-capacity-over-growable-collection idiom used
	// throughout this kernel's boot-time data structures.
	maxDepth = 32
)

// WalkStructure performs a depth-first traversal of the structure block.
// onNode fires at each BEGIN_NODE with the node's name and depth (the root
// node is depth 1; depth 0 is outside every node). onProperty fires at each PROP belonging to the node currently
// being visited, with the CellInfo that node's properties should be
// interpreted under — the CellInfo its parent declared, per the
// child-scope inheritance rule (see CellInfo).
//
// Either callback may return false to abort the entire walk early.
// Malformed input (bad token, truncated payload) halts the walk cleanly;
// it is not reported back to the caller beyond simply stopping.
func (h *Header) WalkStructure(onNode func(name string, depth int) bool, onProperty func(ownerName string, prop Property, cells CellInfo, depth int) bool) {
	c := cursor{buf: h.buf}
	off := h.StructureBlockOffset

	var cellStack [maxDepth]CellInfo
	cellStack[0] = defaultCellInfo

	var nameStack [maxDepth]string
	depth := 0

	// declaredStack tracks the #address-cells/#size-cells each open node
	// has declared for its own children so far; a node's entry is copied
	// into cellStack for a child the moment that child's BEGIN_NODE is
	// reached.
	var declaredStack [maxDepth]CellInfo
	declaredStack[0] = defaultCellInfo

	for {
		tok, ok := c.readU32(off)
		if !ok {
			return
		}
		off += 4

		switch tok {
		case tokenNop:
			continue

		case tokenEnd:
			return

		case tokenBeginNode:
			name, next, ok := c.readCString(off)
			if !ok {
				return
			}
			off = align4(next)

			if depth+1 >= maxDepth {
				return
			}
			depth++
			nameStack[depth] = name
			cellStack[depth] = declaredStack[depth-1]
			declaredStack[depth] = defaultCellInfo

			if !onNode(name, depth) {
				return
			}

		case tokenEndNode:
			if depth == 0 {
				return
			}
			depth--

		case tokenProp:
			length, ok := c.readU32(off)
			if !ok {
				return
			}
			nameOff, ok := c.readU32(off + 4)
			if !ok {
				return
			}
			dataStart := off + 8
			if uint64(dataStart)+uint64(length) > uint64(len(c.buf)) {
				return
			}
			data := c.buf[dataStart : dataStart+length]
			off = align4(dataStart + length)

			propName, ok := stringAt(h.buf, h.StringsBlockOffset, nameOff)
			if !ok {
				return
			}

			prop := Property{Name: propName, Data: data}
			updateDeclaredCells(&declaredStack[depth], prop)

			if !onProperty(nameStack[depth], prop, cellStack[depth], depth) {
				return
			}

		default:
			return
		}
	}
}

// updateDeclaredCells records #address-cells/#size-cells values declared by
// the node currently being scanned, for its children to inherit.
func updateDeclaredCells(declared *CellInfo, prop Property) {
	switch prop.Name {
	case "#address-cells":
		if v, ok := prop.AsU32(); ok {
			declared.AddressCells = v
		}
	case "#size-cells":
		if v, ok := prop.AsU32(); ok {
			declared.SizeCells = v
		}
	}
}

// stringAt reads a NUL-terminated string from the strings block at the
// given offset.
func stringAt(buf []byte, stringsBlockOffset, nameOff uint32) (string, bool) {
	c := cursor{buf: buf}
	s, _, ok := c.readCString(stringsBlockOffset + nameOff)
	return s, ok
}
