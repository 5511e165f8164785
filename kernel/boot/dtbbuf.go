package boot

import "unsafe"

// maxProbeSize bounds the initial read used to discover a DTB's declared
// total_size: large enough for any real-world DTB, small enough to stay
// off the end of mapped DRAM even on a minimal machine.
const maxProbeSize = 2 * 1024 * 1024

// dtbBytesAt reinterprets the physical memory at addr as a byte slice of
// the given length. The boot core runs with paging disabled, so physical
// addresses are directly dereferenceable.
func dtbBytesAt(addr uint64, length uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), int(length))
}
