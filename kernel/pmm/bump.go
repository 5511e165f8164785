// Package pmm implements the physical page allocator: a bump allocator
// over a snapshotted physmap.Map. It never frees; once the kernel is fully
// initialized, the pages it handed out are expected to be handed over to a
// more capable allocator outside the scope of this boot core.
package pmm

import (
	"github.com/achilleasa/riscv-sv39-boot/kernel/mem"
	"github.com/achilleasa/riscv-sv39-boot/kernel/physmap"
)

// BumpAllocator hands out 4 KiB-aligned physical page frames by walking a
// snapshot of physmap regions in order and advancing a cursor through each.
type BumpAllocator struct {
	regions     [physmap.MaxRegions]physmap.Region
	regionCount int
	current     int
	next        uint64
}

// Reset snapshots up to physmap.MaxRegions regions from m and prepares the
// allocator to hand out pages starting at the first region's start address.
// Regions beyond MaxRegions would be silently not snapshotted, but since
// physmap.Map can never itself hold more than MaxRegions regions, every
// region of m is always taken.
func (a *BumpAllocator) Reset(m *physmap.Map) {
	a.regionCount = 0
	m.WalkRegions(func(r physmap.Region) bool {
		if a.regionCount >= physmap.MaxRegions {
			return false
		}
		a.regions[a.regionCount] = r
		a.regionCount++
		return true
	})

	a.current = 0
	if a.regionCount > 0 {
		a.next = a.regions[0].Start
	} else {
		a.next = 0
	}
}

// AllocatePage returns the next available 4 KiB-aligned physical address
// and advances the cursor past it. ok is false once every snapshotted
// region has been exhausted.
func (a *BumpAllocator) AllocatePage() (addr uint64, ok bool) {
	pageSize := uint64(mem.PageSize)

	for a.current < a.regionCount {
		r := a.regions[a.current]
		regionEnd := r.Start + r.Size
		if a.next+pageSize <= regionEnd {
			addr = a.next
			a.next += pageSize
			if a.next >= regionEnd {
				a.current++
				if a.current < a.regionCount {
					a.next = a.regions[a.current].Start
				}
			}
			return addr, true
		}
		a.current++
		if a.current < a.regionCount {
			a.next = a.regions[a.current].Start
		}
	}
	return 0, false
}

// TotalMemorySize returns the sum of all snapshotted region sizes.
func (a *BumpAllocator) TotalMemorySize() uint64 {
	var total uint64
	for i := 0; i < a.regionCount; i++ {
		total += a.regions[i].Size
	}
	return total
}

// AllocatedMemorySize returns the number of bytes handed out so far: the
// full size of every exhausted prior region plus the portion consumed of
// the current one.
func (a *BumpAllocator) AllocatedMemorySize() uint64 {
	var allocated uint64
	for i := 0; i < a.current && i < a.regionCount; i++ {
		allocated += a.regions[i].Size
	}
	if a.current < a.regionCount {
		allocated += a.next - a.regions[a.current].Start
	}
	return allocated
}

// AvailableMemorySize returns TotalMemorySize - AllocatedMemorySize.
func (a *BumpAllocator) AvailableMemorySize() uint64 {
	return a.TotalMemorySize() - a.AllocatedMemorySize()
}
