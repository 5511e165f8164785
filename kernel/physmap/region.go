// Package physmap models the physical memory map the boot core assembles
// from the devicetree: a fixed-capacity, non-overlapping collection of
// regions that can be populated from DTB "memory" nodes and narrowed by
// carving out reserved ranges.
package physmap

import "github.com/achilleasa/riscv-sv39-boot/kernel/mem"

// MaxRegions bounds the number of regions a Map can hold. A fixed array
// instead of a growable collection keeps the map allocation-free.
const MaxRegions = 128

// Region is a contiguous span of physical memory.
type Region struct {
	Start uint64
	Size  uint64
}

// End returns the inclusive last address of the region, or 0 if the region
// is empty.
func (r Region) End() uint64 {
	if r.Size == 0 {
		return 0
	}
	return r.Start + r.Size - 1
}

// AlignForPopulation rounds a DTB-reported memory region's start up and its
// size down to 4 KiB boundaries, per the alignment policy for populating
// the map from "memory" nodes. ok is false if the aligned region ends up
// smaller than one page.
func AlignForPopulation(start, size uint64) (alignedStart, alignedSize uint64, ok bool) {
	end := start + size
	alignedStart = mem.AlignUp(start)
	alignedEnd := mem.AlignDown(end)
	if alignedEnd <= alignedStart {
		return 0, 0, false
	}
	return alignedStart, alignedEnd - alignedStart, true
}
