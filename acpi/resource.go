package acpi

import (
	"regexp"
	"strings"

	"dtsgen-go/types"
	"dtsgen-go/x/hexx"
)

// ---- _CRS resource descriptors ----

var (
	reHex8      = regexp.MustCompile(`0x[0-9A-Fa-f]{8}`)
	reIrqLine   = regexp.MustCompile(`^\s*0x[0-9A-F]+,$`)
	rePinLabel  = regexp.MustCompile(`"([a-z][A-Za-z0-9_\-]*)"`)
	reSBPath    = regexp.MustCompile(`\\+_SB\.([A-Za-z0-9_]+)`)
	reBareHex   = regexp.MustCompile(`0x[0-9A-Fa-f]+`)
	rePinHeader = regexp.MustCompile(`Pin list`)
)

// resourceParser consumes lines inside a _CRS block and accumulates
// windows, interrupts, pin groups and GPIO references onto dev. One
// descriptor is pending at a time; each is introduced by its keyword line.
type resourceParser struct {
	dev *types.Device

	// pending descriptor state
	memWant  int  // hex literals still needed for Memory32Fixed (2, 1, 0)
	memBase  uint32
	irqWait  bool
	gpioWait bool   // GpioIo seen, controller not yet
	gpioCtl  string // controller name, pin list pending
	gpioPins bool   // inside the pin list

	// ExtraWindows counts Memory32Fixed descriptors past the first.
	ExtraWindows int
}

func newResourceParser(dev *types.Device) *resourceParser {
	return &resourceParser{dev: dev}
}

// feed dispatches one line. Safe to call on every line of the device
// body; descriptors outside _CRS simply never introduce themselves.
func (rp *resourceParser) feed(text string) {
	switch {
	case strings.Contains(text, "Memory32Fixed"):
		if rp.dev.Window != nil {
			// First window wins; tally the rest.
			rp.ExtraWindows++
			rp.memWant = 0
			return
		}
		rp.memWant = 2
		return
	case strings.Contains(text, "Interrupt (ResourceConsumer"):
		rp.irqWait = true
		return
	case strings.Contains(text, "PinGroupFunction"):
		if m := rePinLabel.FindStringSubmatch(text); m != nil {
			rp.dev.PinGroups = append(rp.dev.PinGroups, m[1])
		}
		return
	case strings.Contains(text, "GpioIo"):
		rp.gpioWait = true
		rp.gpioCtl = ""
		rp.gpioPins = false
		return
	}

	if rp.memWant > 0 {
		for _, lit := range reHex8.FindAllString(text, -1) {
			v, ok := hexx.ParseHex(lit)
			if !ok {
				continue
			}
			if rp.memWant == 2 {
				rp.memBase = uint32(v)
				rp.memWant = 1
			} else {
				rp.dev.Window = &types.ResourceWindow{Base: rp.memBase, Len: uint32(v)}
				rp.memWant = 0
				break
			}
		}
	}

	if rp.irqWait && reIrqLine.MatchString(text) {
		if v, ok := hexx.ParseHex(strings.TrimSpace(text)); ok {
			rp.dev.Interrupt = int(v)
		}
		rp.irqWait = false
	}

	if rp.gpioWait {
		if m := reSBPath.FindStringSubmatch(text); m != nil {
			rp.gpioCtl = m[1]
			rp.gpioWait = false
		}
	} else if rp.gpioCtl != "" {
		switch {
		case rePinHeader.MatchString(text):
			rp.gpioPins = true
		case rp.gpioPins && strings.Contains(text, "}"):
			rp.gpioCtl = ""
			rp.gpioPins = false
		case rp.gpioPins:
			for _, lit := range reBareHex.FindAllString(text, -1) {
				if v, ok := hexx.ParseHex(lit); ok {
					rp.dev.Gpios = append(rp.dev.Gpios, types.GpioRef{
						Controller: rp.gpioCtl,
						Pin:        int(v),
					})
				}
			}
		}
	}
}
