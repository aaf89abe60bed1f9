// dsldump parses one or more disassembled ACPI tables and prints the
// recovered, deduplicated device list, one line per device. Debug aid for new firmware drops.
package main

import (
	"fmt"
	"os"

	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"

	"dtsgen-go/acpi"
	"dtsgen-go/services/convert"
	"dtsgen-go/symbols"
)

func main() {
	log.SetOutput(colorable.NewColorableStderr())
	if len(os.Args) < 2 {
		log.Error("usage: dsldump <table.dsl>...")
		os.Exit(1)
	}
	p := acpi.NewParser(convert.DefaultPNPAllow())
	for _, path := range os.Args[1:] {
		if err := p.ParseFile(path); err != nil {
			log.Errorf("%s: %v", path, err)
			os.Exit(1)
		}
	}
	for _, d := range p.Devices() {
		compat := "?"
		if e, ok := symbols.Lookup(d.HID); ok {
			compat = e.Compatible
		}
		line := fmt.Sprintf("%-6s %-10s uid=%d cat=%-8s compat=%s",
			d.Name, d.HID, d.UID, symbols.Category(d.HID), compat)
		if d.Window != nil {
			line += fmt.Sprintf(" reg=0x%08x+0x%x", d.Window.Base, d.Window.Len)
		}
		if d.Interrupt >= 0 {
			line += fmt.Sprintf(" irq=%d(spi %d)", d.Interrupt, symbols.SPI(d.Interrupt))
		}
		if len(d.Children) > 0 {
			line += fmt.Sprintf(" children=%d", len(d.Children))
		}
		fmt.Println(line)
	}
	st := p.Stats()
	if st.DroppedPNP > 0 || st.ExtraWindows > 0 {
		log.Infof("dropped %d PNP devices, %d extra memory windows", st.DroppedPNP, st.ExtraWindows)
	}
}
