package boot

// linkerSymbols groups the section boundaries the build system provides via
// the linker script. Every boundary field is a physical address, guaranteed
// page-aligned by the build system, never by this package; kernelImageSize
// is a byte count, and kernelEntry is the address Run jumps to once paging
// is enabled.
type linkerSymbols struct {
	textStart, textEnd     uintptr
	rodataStart, rodataEnd uintptr
	dataStart, dataEnd     uintptr
	bssStart, bssEnd       uintptr
	stackStart, stackEnd   uintptr
	kernelImageStart       uintptr
	kernelImageSize        uintptr
	kernelEntry            uintptr
	bootImageStart         uintptr
	bootImageEnd           uintptr
}

// readLinkerSymbols reads every boundary symbol the linker script defines.
// Each accessor below has no Go body: it is implemented in
// linker_riscv64.s and returns the address the linker script assigns to
// the matching symbol.
func readLinkerSymbols() linkerSymbols {
	return linkerSymbols{
		textStart:        textStartAddr(),
		textEnd:          textEndAddr(),
		rodataStart:      rodataStartAddr(),
		rodataEnd:        rodataEndAddr(),
		dataStart:        dataStartAddr(),
		dataEnd:          dataEndAddr(),
		bssStart:         bssStartAddr(),
		bssEnd:           bssEndAddr(),
		stackStart:       stackStartAddr(),
		stackEnd:         stackEndAddr(),
		kernelImageStart: kernelImageStartAddr(),
		kernelImageSize:  kernelImageSizeVal(),
		kernelEntry:      kernelEntryAddr(),
		bootImageStart:   bootImageStartAddr(),
		bootImageEnd:     bootImageEndAddr(),
	}
}

func textStartAddr() uintptr
func textEndAddr() uintptr
func rodataStartAddr() uintptr
func rodataEndAddr() uintptr
func dataStartAddr() uintptr
func dataEndAddr() uintptr
func bssStartAddr() uintptr
func bssEndAddr() uintptr
func stackStartAddr() uintptr
func stackEndAddr() uintptr
func kernelImageStartAddr() uintptr
func kernelImageSizeVal() uintptr
func kernelEntryAddr() uintptr
func bootImageStartAddr() uintptr
func bootImageEndAddr() uintptr
