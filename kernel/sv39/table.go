package sv39

import (
	"unsafe"

	"github.com/achilleasa/riscv-sv39-boot/kernel/mem"
)

// entriesPerTable is the number of 8-byte PTE slots in a 4 KiB table.
const entriesPerTable = uint64(mem.PageSize) / 8

// Table is a single level of the Sv39 page-table radix tree: 512 PTEs
// packed into one physical page.
type Table struct {
	entries [entriesPerTable]PTE
}

// FrameAllocatorFn hands out a fresh, zero-filled-on-use physical page
// number. It mirrors pmm.BumpAllocator.AllocatePage, truncated to a page
// number; since AllocatePage returns an address rather than a PPN, callers
// wrap it in a small adapter instead of passing the method value directly.
type FrameAllocatorFn func() (PPN, bool)

// tableAt reinterprets the physical page at ppn as a Table. Boot code runs
// with paging disabled, so physical addresses are directly dereferenceable.
func tableAt(ppn PPN) *Table {
	return (*Table)(unsafe.Pointer(uintptr(ppn.Address())))
}

// clear zeroes every entry, one entry at a time.
func (t *Table) clear() {
	for i := range t.entries {
		t.entries[i] = 0
	}
}

// entry returns the PTE at index i (0-511).
func (t *Table) entry(i uint64) PTE {
	return t.entries[i]
}

// setEntry stores e at index i.
func (t *Table) setEntry(i uint64, e PTE) {
	t.entries[i] = e
}

// NewTable allocates a fresh physical page via alloc, zeroes it, and returns
// both the in-place Table view and the page number it lives at. ok is false
// if the allocator is exhausted.
func NewTable(alloc FrameAllocatorFn) (*Table, PPN, bool) {
	ppn, ok := alloc()
	if !ok {
		return nil, 0, false
	}
	t := tableAt(ppn)
	t.clear()
	return t, ppn, true
}
