// Command dtbinspect is a host-side offline tool for inspecting a
// devicetree blob the same way the boot core would parse it: it prints the
// reservation block, the node tree, and the memory map populated from the
// memory nodes (before any reserved-memory or boot-image carve-out the
// orchestrator applies), using the exact decoding logic in
// github.com/achilleasa/riscv-sv39-boot/kernel/devicetree. It never runs on
// the target hart; it exists purely to let a developer sanity-check a DTB
// before flashing it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/riscv-sv39-boot/kernel/devicetree"
	"github.com/achilleasa/riscv-sv39-boot/kernel/errors"
	"github.com/achilleasa/riscv-sv39-boot/kernel/physmap"
	"github.com/charmbracelet/x/ansi"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: dtbinspect <file.dtb>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

func run(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(buf) < 4 || buf[0] != 0xd0 || buf[1] != 0x0d || buf[2] != 0xfe || buf[3] != 0xed {
		return errors.ErrNotADTB
	}

	hdr, ok := devicetree.ParseHeader(buf)
	if !ok {
		return errors.ErrNotADTB
	}

	fmt.Println("reservations:")
	hdr.WalkReservations(func(addr, size uint64) bool {
		fmt.Printf("  0x%x .. 0x%x\n", addr, addr+size)
		return true
	})

	fmt.Println("structure:")
	bar := progressbar.Default(-1, "scanning nodes")
	var m physmap.Map
	var insideMemory bool
	var memoryDepth int

	hdr.WalkStructure(
		func(name string, depth int) bool {
			bar.Add(1)
			fmt.Printf("%s%s\n", indent(depth), displayName(ansi.Strip(name)))
			insideMemory = name == "memory" || hasPrefix(name, "memory@")
			memoryDepth = depth
			return true
		},
		func(owner string, prop devicetree.Property, cells devicetree.CellInfo, depth int) bool {
			if prop.Name != "reg" {
				return true
			}
			fmt.Printf("%sreg (cells=%d,%d)\n", indent(depth+1), cells.AddressCells, cells.SizeCells)
			if insideMemory && depth == memoryDepth {
				prop.AsReg(cells, func(addr, size uint64) bool {
					if alignedStart, alignedSize, ok := physmap.AlignForPopulation(addr, size); ok {
						m.AddRegion(alignedStart, alignedSize)
					}
					return true
				})
			}
			return true
		},
	)
	bar.Finish()

	return dumpMemoryMap(&m)
}

func dumpMemoryMap(m *physmap.Map) error {
	type region struct {
		Start string `yaml:"start"`
		Size  string `yaml:"size"`
	}
	var regions []region
	m.WalkRegions(func(r physmap.Region) bool {
		regions = append(regions, region{
			Start: fmt.Sprintf("0x%x", r.Start),
			Size:  fmt.Sprintf("0x%x", r.Size),
		})
		return true
	})

	out, err := yaml.Marshal(struct {
		GeneratedAt string   `yaml:"generated_at"`
		Regions     []region `yaml:"regions"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Regions:     regions,
	})
	if err != nil {
		return err
	}
	fmt.Println("memory map:")
	fmt.Print(string(out))
	return nil
}

func indent(depth int) string {
	b := make([]byte, depth*2)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func displayName(name string) string {
	if name == "" {
		return "/"
	}
	return name
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}
