package main

import "github.com/achilleasa/riscv-sv39-boot/kernel/kboot"

// bootHartID and bootDTBAddr are populated by entry_riscv64.s immediately
// before it calls main; they carry the firmware-supplied hart id and
// device tree blob address across the assembly-to-Go handoff.
var (
	bootHartID  uintptr
	bootDTBAddr uintptr
)

// main is the only Go symbol visible from the rt0 entry code in
// entry_riscv64.s. It is a trampoline for kboot.Boot, the real kernel
// entrypoint, kept intentionally trivial so the compiler has no excuse to
// optimize away code it can't see being called from assembly.
//
// main is not expected to return. If kboot.Boot does return, it panics
// rather than letting control fall back here.
func main() {
	kboot.Boot(uint64(bootHartID), uint64(bootDTBAddr))
}
