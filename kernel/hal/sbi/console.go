// Package sbi provides the thin client-side wrapper around the RISC-V
// Supervisor Binary Interface calls this kernel depends on: debug console
// output and halting the hart. Both are irreducibly machine-specific and
// are encapsulated behind the narrow functions below so the rest of the
// kernel stays free of inline assembly and ecall conventions.
package sbi

import "unsafe"

// Debug Console extension, per the SBI specification.
const (
	extDebugConsole  = 0x4442434e
	fidConsoleWrite  = 0
)

// consoleWriteFn issues the SBI ecall for the Debug Console Write function.
// It is implemented in console_riscv64.s; the Go declaration carries only
// the doc comment, matching the rest of this package's assembly-backed
// functions.
//
// Arguments are (byte count, buffer address low, buffer address high). The
// SBI return pair (error, value) is ignored by the caller, per the external
// interface contract: a failed console write has no recovery path during
// boot and is not worth the cost of checking.
func consoleWriteFn(numBytes, addrLow, addrHigh uint64)

// Console is the active debug console, usable as a kfmt.Sink.
type Console struct{}

// ActiveConsole is the package-level console instance. It has no state of
// its own; every write goes straight out via an SBI ecall.
var ActiveConsole Console

// WriteByte writes a single byte to the SBI debug console.
func (Console) WriteByte(b byte) {
	var buf [1]byte
	buf[0] = b
	write(buf[:])
}

// Write writes p to the SBI debug console.
func (Console) Write(p []byte) {
	write(p)
}

// write performs the actual SBI Debug Console Write call. The extension
// takes the buffer address as a low and a high register-width half; on
// riscv64 the whole address fits in the low half, so it is passed there
// unsplit and the high half is always 0.
func write(p []byte) {
	if len(p) == 0 {
		return
	}
	addr := uint64(uintptr(unsafe.Pointer(&p[0])))
	consoleWriteFn(uint64(len(p)), addr, 0)
}
