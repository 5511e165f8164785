// Package cpu declares the small set of riscv64 operations that cannot be
// expressed in portable Go: CSR writes, TLB fences, and the final jump to a
// high virtual address once paging is live.
package cpu

// EnablePaging writes satp with the supplied value (mode, ASID and root PPN
// already packed per the Sv39 encoding) and issues a full-address-space TLB
// fence (sfence.vma with no operands).
func EnablePaging(satp uintptr)

// FlushTLB issues a full-address-space TLB fence without touching satp.
func FlushTLB()

// JumpToKernelEntry transfers control to entry (a high virtual address) via
// an unconditional jump, not a call: the boot stack is never unwound and
// this function does not return. hartID, dtbAddr and rootTablePhysAddr are
// passed through in a0, a1, a2 per the kernel entry contract.
func JumpToKernelEntry(entry, hartID, dtbAddr, rootTablePhysAddr uintptr)
