package sv39

import "github.com/achilleasa/riscv-sv39-boot/kernel/mem"

// PPN is a 44-bit physical page number: a physical address with its
// page-offset bits shifted out.
type PPN uint64

// PPNFromAddr truncates a physical address down to its containing page and
// returns the page number.
func PPNFromAddr(addr uint64) PPN {
	return PPN(addr >> mem.PageShift)
}

// Address returns the physical address of the start of the page numbered by
// ppn.
func (p PPN) Address() uint64 {
	return uint64(p) << mem.PageShift
}

// VPN is a 27-bit virtual page number, decomposed into three 9-bit level
// indices (level2 is the root-table index, level0 indexes the final leaf
// table).
type VPN uint64

// VPNFromAddr truncates a virtual address down to its containing page and
// returns the page number.
func VPNFromAddr(addr uint64) VPN {
	return VPN(addr >> mem.PageShift)
}

// Level2 returns the root-level table index (bits 26-18 of the VPN).
func (v VPN) Level2() uint64 {
	return (uint64(v) >> 18) & 0x1ff
}

// Level1 returns the middle-level table index (bits 17-9 of the VPN).
func (v VPN) Level1() uint64 {
	return (uint64(v) >> 9) & 0x1ff
}

// Level0 returns the leaf-level table index (bits 8-0 of the VPN).
func (v VPN) Level0() uint64 {
	return uint64(v) & 0x1ff
}
