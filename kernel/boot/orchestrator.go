// Package boot implements the single-pass boot orchestrator: it parses the
// firmware-supplied device tree, builds a physical memory map from it,
// stands up a bump allocator and an Sv39 root page table, installs the
// identity, kernel and direct-map mappings, and enables paging before
// jumping to the kernel's high-half entry point. It never returns.
package boot

import (
	"github.com/achilleasa/riscv-sv39-boot/kernel"
	"github.com/achilleasa/riscv-sv39-boot/kernel/cpu"
	"github.com/achilleasa/riscv-sv39-boot/kernel/devicetree"
	"github.com/achilleasa/riscv-sv39-boot/kernel/kfmt"
	"github.com/achilleasa/riscv-sv39-boot/kernel/mem"
	"github.com/achilleasa/riscv-sv39-boot/kernel/physmap"
	"github.com/achilleasa/riscv-sv39-boot/kernel/pmm"
	"github.com/achilleasa/riscv-sv39-boot/kernel/sv39"
)

const (
	// highVirtBase is the virtual address the kernel image itself is
	// mapped at. Sv39 requires the high half to be canonical (bits
	// 63-39 all set), so this is the only value consistent with that
	// constraint.
	highVirtBase = uint64(0xFFFF_FFC0_0000_0000)

	// directMapLevel2Index is the root-table index the 128 GiB direct
	// map starts at: 512 - 128.
	directMapLevel2Index = 512 - 128

	// directMapVirtBase is (384 << 30); it exists purely so callers and
	// tests can state the 384 GiB offset without re-deriving it from
	// directMapLevel2Index.
	directMapVirtBase  = uint64(directMapLevel2Index) << 30
	directMapGigapages = 128

	satpModeSv39 = uint64(8)
)

var (
	errMalformedDTB   = &kernel.Error{Module: "boot", Message: "malformed or unrecognised device tree blob"}
	errNoMemoryNodes  = &kernel.Error{Module: "boot", Message: "device tree declares no usable memory"}
	errRootTableAlloc = &kernel.Error{Module: "boot", Message: "failed to allocate root page table frame"}
	errMappingFailed  = &kernel.Error{Module: "boot", Message: "physical allocator exhausted while building page tables"}
)

// Run executes the full boot sequence for the given hart and DTB physical
// address. It does not return: on success it jumps to the kernel's high
// virtual entry point; on any fatal error it panics, which halts the hart.
func Run(hartID, dtbAddr uint64) {
	kfmt.Printf("boot: hart %d starting, dtb at %x\n", hartID, dtbAddr)

	sym := readLinkerSymbols()

	hdr, ok := parseDTB(dtbAddr)
	if !ok {
		kernel.Panic(errMalformedDTB)
	}

	kfmt.Printf("boot: reserved memory ranges:\n")
	hdr.WalkReservations(func(addr, size uint64) bool {
		kfmt.Printf("  [%x, %x)\n", addr, addr+size)
		return true
	})

	kfmt.Printf("boot: device tree structure:\n")
	printStructure(&hdr)

	var m physmap.Map
	if !populateMemoryMap(&hdr, &m) {
		kernel.Panic(errNoMemoryNodes)
	}
	carveOutReservedMemory(&hdr, &m)
	m.CarveOut(uint64(sym.bootImageStart), uint64(sym.bootImageEnd-sym.bootImageStart))

	var alloc pmm.BumpAllocator
	alloc.Reset(&m)
	kfmt.Printf("boot: %d bytes of usable memory after carve-out\n", alloc.TotalMemorySize())

	root, rootPPN, ok := sv39.NewTable(frameAllocFn(&alloc))
	if !ok {
		kernel.Panic(errRootTableAlloc)
	}

	if !buildMappings(root, &alloc, sym) {
		kernel.Panic(errMappingFailed)
	}

	satp := (satpModeSv39 << 60) | (uint64(rootPPN) & (1<<44 - 1))
	kfmt.Printf("boot: enabling paging, satp=%x\n", satp)
	cpu.EnablePaging(uintptr(satp))
	cpu.FlushTLB()

	cpu.JumpToKernelEntry(sym.kernelEntry, uintptr(hartID), uintptr(dtbAddr), uintptr(rootPPN.Address()))
}

// frameAllocFn adapts a BumpAllocator's page-addressed allocation method to
// the PPN-addressed shape the Sv39 mapping engine expects.
func frameAllocFn(alloc *pmm.BumpAllocator) sv39.FrameAllocatorFn {
	return func() (sv39.PPN, bool) {
		addr, ok := alloc.AllocatePage()
		if !ok {
			return 0, false
		}
		return sv39.PPNFromAddr(addr), true
	}
}

// parseDTB reads the DTB header at dtbAddr, first over a generously sized
// probe window and then, once total_size is known, over the exact range it
// declares.
func parseDTB(dtbAddr uint64) (devicetree.Header, bool) {
	probe := dtbBytesAt(dtbAddr, maxProbeSize)
	hdr, ok := devicetree.ParseHeader(probe)
	if !ok {
		return devicetree.Header{}, false
	}
	return devicetree.ParseHeader(dtbBytesAt(dtbAddr, hdr.TotalSize))
}

// printStructure walks the structure block, printing each node and
// property indented by depth, decoding reg properties using the inherited
// cell info.
func printStructure(hdr *devicetree.Header) {
	hdr.WalkStructure(
		func(name string, depth int) bool {
			printIndent(depth * 2)
			kfmt.Printf("%s\n", name)
			return true
		},
		func(owner string, prop devicetree.Property, cells devicetree.CellInfo, depth int) bool {
			printIndent(depth*2 + 2)
			if prop.Name == "reg" {
				prop.AsReg(cells, func(addr, size uint64) bool {
					kfmt.Printf("reg: %x, %x\n", addr, size)
					return true
				})
				return true
			}
			kfmt.Printf("%s\n", prop.Name)
			return true
		},
	)
}

// printIndent writes n literal spaces to the console.
func printIndent(n int) {
	for i := 0; i < n; i++ {
		kfmt.Printf(" ")
	}
}

// populateMemoryMap implements step 4a: every memory/memory@... node's reg
// entries are page-aligned and added to m. It returns false if no region
// was added.
func populateMemoryMap(hdr *devicetree.Header, m *physmap.Map) bool {
	added := false
	var inMemoryNode bool
	var nodeDepth int

	hdr.WalkStructure(
		func(name string, depth int) bool {
			inMemoryNode = isMemoryNodeName(name)
			nodeDepth = depth
			return true
		},
		func(owner string, prop devicetree.Property, cells devicetree.CellInfo, depth int) bool {
			if !inMemoryNode || depth != nodeDepth || prop.Name != "reg" {
				return true
			}
			prop.AsReg(cells, func(addr, size uint64) bool {
				if alignedStart, alignedSize, ok := physmap.AlignForPopulation(addr, size); ok {
					m.AddRegion(alignedStart, alignedSize)
					added = true
				}
				return true
			})
			return true
		},
	)
	return added
}

// carveOutReservedMemory implements step 4b: every reg entry under the
// reserved-memory node (and its descendants) is carved out of m.
func carveOutReservedMemory(hdr *devicetree.Header, m *physmap.Map) {
	var insideReservedMemory bool
	var reservedMemoryDepth = -1

	hdr.WalkStructure(
		func(name string, depth int) bool {
			if isReservedMemoryNodeName(name) {
				insideReservedMemory = true
				reservedMemoryDepth = depth
			} else if insideReservedMemory && depth <= reservedMemoryDepth {
				insideReservedMemory = false
			}
			return true
		},
		func(owner string, prop devicetree.Property, cells devicetree.CellInfo, depth int) bool {
			if !insideReservedMemory || prop.Name != "reg" {
				return true
			}
			prop.AsReg(cells, func(addr, size uint64) bool {
				m.CarveOut(addr, size)
				return true
			})
			return true
		},
	)
}

func isMemoryNodeName(name string) bool {
	return name == "memory" || hasPrefix(name, "memory@")
}

func isReservedMemoryNodeName(name string) bool {
	return name == "reserved-memory" || hasPrefix(name, "reserved-memory@")
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}

// buildMappings implements step 7: identity-mapping the boot sections,
// mapping the kernel image to its high virtual base, and direct-mapping
// the first 128 GiB of physical memory.
func buildMappings(root *sv39.Table, alloc *pmm.BumpAllocator, sym linkerSymbols) bool {
	allocFn := frameAllocFn(alloc)

	sections := []struct {
		start, end uintptr
		flags      sv39.Flags
	}{
		{sym.textStart, sym.textEnd, sv39.Flags{Read: true, Exec: true}},
		{sym.rodataStart, sym.rodataEnd, sv39.Flags{Read: true}},
		{sym.dataStart, sym.dataEnd, sv39.Flags{Read: true, Write: true}},
		{sym.bssStart, sym.bssEnd, sv39.Flags{Read: true, Write: true}},
		{sym.stackStart, sym.stackEnd, sv39.Flags{Read: true, Write: true}},
	}
	for _, s := range sections {
		if s.end <= s.start {
			continue
		}
		if !sv39.IdentityMapRange(root, uint64(s.start), uint64(s.end-s.start), s.flags, allocFn) {
			return false
		}
	}

	kernelPages := (uint64(sym.kernelImageSize) + uint64(mem.PageSize) - 1) / uint64(mem.PageSize)
	if !sv39.MapRange(root, highVirtBase, uint64(sym.kernelImageStart), kernelPages*uint64(mem.PageSize),
		sv39.Flags{Read: true, Write: true, Exec: true}, allocFn) {
		return false
	}

	if !sv39.DirectMapGigapages(root, directMapVirtBase, directMapGigapages, sv39.Flags{Read: true, Write: true, Global: true}) {
		kfmt.Printf("boot: gigapage direct-map conflict, continuing with existing mapping\n")
	}

	return true
}
