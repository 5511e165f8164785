// Package kboot is the Go-visible kernel entrypoint invoked by the
// assembly rt0 stub once the boot hart has a stack and a zeroed .bss. It
// exists only as a stable symbol name and argument ABI for the assembly
// side to call into; all real work happens in package boot.
package kboot

import (
	"github.com/achilleasa/riscv-sv39-boot/kernel"
	"github.com/achilleasa/riscv-sv39-boot/kernel/boot"
	"github.com/achilleasa/riscv-sv39-boot/kernel/hal/sbi"
	"github.com/achilleasa/riscv-sv39-boot/kernel/kfmt"
)

var errBootReturned = &kernel.Error{Module: "kboot", Message: "boot.Run returned"}

// Boot is called from rt0 with (hart id, DTB physical address). It never
// returns: boot.Run either jumps to the kernel's high-half entry point or
// panics.
//
//go:noinline
func Boot(hartID, dtbAddr uint64) {
	kfmt.SetSink(sbi.ActiveConsole)

	boot.Run(hartID, dtbAddr)

	// Use kernel.Panic instead of panic to prevent the compiler from
	// treating kernel.Panic as dead code and eliminating it, since
	// boot.Run is not (and cannot be) annotated noreturn.
	kernel.Panic(errBootReturned)
}
