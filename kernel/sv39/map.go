package sv39

import "github.com/achilleasa/riscv-sv39-boot/kernel/mem"

// MapOne installs a single 4 KiB leaf mapping for va in root, allocating any
// missing intermediate (level 1, level 0) tables via alloc. If a valid leaf
// already occupies the slot, MapOne is idempotent and returns its existing
// PPN unchanged. Otherwise it installs a fresh leaf mapping to ppn, or to a
// freshly allocated frame if havePPN is false, and returns the PPN installed.
// ok is false if alloc runs out of frames partway through.
func MapOne(root *Table, va uint64, ppn PPN, havePPN bool, flags Flags, alloc FrameAllocatorFn) (PPN, bool) {
	vpn := VPNFromAddr(va)

	l1, ok := descend(root, vpn.Level2(), alloc)
	if !ok {
		return 0, false
	}
	l0, ok := descend(l1, vpn.Level1(), alloc)
	if !ok {
		return 0, false
	}

	if existing := l0.entry(vpn.Level0()); existing.IsValid() && existing.IsLeaf() {
		return existing.PPN(), true
	}

	target := ppn
	if !havePPN {
		allocated, ok := alloc()
		if !ok {
			return 0, false
		}
		target = allocated
	}

	l0.setEntry(vpn.Level0(), newLeaf(target, flags))
	return target, true
}

// descend returns the child table reachable from parent at index idx,
// allocating and installing a fresh one via alloc if the slot is empty.
func descend(parent *Table, idx uint64, alloc FrameAllocatorFn) (*Table, bool) {
	e := parent.entry(idx)
	if e.IsValid() {
		return tableAt(e.PPN()), true
	}
	child, childPPN, ok := NewTable(alloc)
	if !ok {
		return nil, false
	}
	parent.setEntry(idx, newBranch(childPPN))
	return child, true
}

// MapGigapage installs a single 1 GiB leaf mapping directly at the root
// level. va and pa must both be 1 GiB-aligned. It returns false, leaving any
// existing entry at that root slot unchanged, if the slot is already valid.
func MapGigapage(root *Table, va, pa uint64, flags Flags) bool {
	if va%uint64(mem.GigapageSize) != 0 || pa%uint64(mem.GigapageSize) != 0 {
		return false
	}
	vpn := VPNFromAddr(va)
	if root.entry(vpn.Level2()).IsValid() {
		return false
	}
	ppn := PPNFromAddr(pa)
	root.setEntry(vpn.Level2(), newLeaf(ppn, flags))
	return true
}

// IdentityMapRange maps every 4 KiB page in [start, start+size) to itself.
// start and size must both already be page-aligned; this is the caller's
// responsibility since callers typically derive the range from a linker
// symbol pair already known to be page-aligned. Individual page allocation
// failures are silently skipped so the caller keeps whatever subset of the
// range could be mapped rather than aborting the whole section.
func IdentityMapRange(root *Table, start, size uint64, flags Flags, alloc FrameAllocatorFn) bool {
	const pageSize = uint64(1) << 12
	if start%pageSize != 0 || size%pageSize != 0 {
		return false
	}
	for off := uint64(0); off < size; off += pageSize {
		MapOne(root, start+off, PPNFromAddr(start+off), true, flags, alloc)
	}
	return true
}

// MapRange maps [physStart, physStart+size) to a VA range starting at
// virtStart, one 4 KiB page at a time. Both addresses and size must already
// be page-aligned. Unlike IdentityMapRange, it stops and reports failure on
// the first page that cannot be mapped.
func MapRange(root *Table, virtStart, physStart, size uint64, flags Flags, alloc FrameAllocatorFn) bool {
	const pageSize = uint64(1) << 12
	if virtStart%pageSize != 0 || physStart%pageSize != 0 || size%pageSize != 0 {
		return false
	}
	for off := uint64(0); off < size; off += pageSize {
		if _, ok := MapOne(root, virtStart+off, PPNFromAddr(physStart+off), true, flags, alloc); !ok {
			return false
		}
	}
	return true
}

// DirectMapGigapages maps the first count GiB of physical memory starting
// at physical address 0 into the gigapage-aligned virtual window starting
// at virtBase, one gigapage at a time. virtBase must be 1 GiB-aligned.
func DirectMapGigapages(root *Table, virtBase uint64, count int, flags Flags) bool {
	if virtBase%uint64(mem.GigapageSize) != 0 {
		return false
	}
	for i := 0; i < count; i++ {
		va := virtBase + uint64(i)*uint64(mem.GigapageSize)
		pa := uint64(i) * uint64(mem.GigapageSize)
		if !MapGigapage(root, va, pa, flags) {
			return false
		}
	}
	return true
}
