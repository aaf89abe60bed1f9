package dts

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"dtsgen-go/symbols"
	"dtsgen-go/types"
	"dtsgen-go/x/mathx"
	"dtsgen-go/x/strx"
)

// ---- DTS emitter ----

// socOrder fixes the category order inside soc@0. Categories not listed
// follow, each in its own group, in category-name order.
var socOrder = []types.Category{
	types.CatI2C,
	types.CatSerial,
	types.CatGPIO,
	types.CatUSB,
	types.CatPCIe,
	types.CatDP,
	types.CatWatchdog,
	types.CatThermal,
	types.CatGPU,
	types.CatEthernet,
}

// categories that never appear inside soc@0; they are rendered as
// dedicated root-level nodes or consumed as board records.
var nonSoc = map[types.Category]bool{
	types.CatClock: true,
	types.CatReset: true,
	types.CatInput: true,
	types.CatPanel: true,
}

// boardIdent maps the detected variant to root model/compatible.
var boardIdent = map[types.BoardVariant]struct {
	Model  string
	Compat []string
}{
	types.BoardSky1EVB: {"CIX Sky1 Evaluation Board", []string{"cix,sky1-evb", "cix,sky1"}},
	types.BoardOrionN:  {"Radxa Orion O6N", []string{"radxa,orion-o6n", "cix,sky1"}},
}

// Tally is the diagnostic outcome of one emission pass.
type Tally struct {
	PerHID     map[string]int // unknown hardware-IDs count under "unknown"
	PerCat     map[types.Category]int
	IRQClamped int
	FWDisabled int // devices the firmware declared with _STA == 0
	Lines      int
}

// Emitter renders the resolved device model as device-tree text.
type Emitter struct {
	devices    []*types.Device
	ctx        *types.BoardContext
	consoleUID int
	tally      Tally
}

// NewEmitter borrows the device list and board context read-only.
// consoleUID selects the UART whose status stays "okay".
func NewEmitter(devices []*types.Device, ctx *types.BoardContext, consoleUID int) *Emitter {
	return &Emitter{
		devices:    devices,
		ctx:        ctx,
		consoleUID: consoleUID,
		tally: Tally{
			PerHID: map[string]int{},
			PerCat: map[types.Category]int{},
		},
	}
}

// Tally returns the counts of the last Render.
func (e *Emitter) Tally() Tally { return e.tally }

// Render writes the complete DTS to w.
func (e *Emitter) Render(w io.Writer) error {
	e.tally = Tally{
		PerHID: map[string]int{},
		PerCat: map[types.Category]int{},
	}
	var b strings.Builder
	e.header(&b)

	root := &Node{Name: "/"}
	e.rootPreamble(root)
	e.cpus(root)
	e.gic(root)
	e.clockAndResets(root)
	e.regulators(root)
	e.auxiliaries(root)
	e.soc(root)

	root.Render(&b, 0)
	out := b.String()
	e.tally.Lines = strings.Count(out, "\n")
	_, err := io.WriteString(w, out)
	return err
}

func (e *Emitter) header(b *strings.Builder) {
	b.WriteString("// SPDX-License-Identifier: (GPL-2.0-only OR MIT)\n")
	b.WriteString("/*\n")
	b.WriteString(" * Generated from firmware ACPI tables and on-target probe data.\n")
	b.WriteString(" * Hand edits will be lost on regeneration.\n")
	b.WriteString(" */\n\n")
	b.WriteString("/dts-v1/;\n\n")
	b.WriteString("#include <dt-bindings/interrupt-controller/arm-gic.h>\n\n")
}

func (e *Emitter) rootPreamble(root *Node) {
	id := boardIdent[e.ctx.Summary.Variant]
	root.P("#address-cells", Cells{"2"})
	root.P("#size-cells", Cells{"2"})
	root.P("model", Str(id.Model))
	root.P("compatible", StrList(id.Compat))
	root.P("interrupt-parent", Cells{Ref("gic")})

	aliases := root.Child("", "aliases")
	for i := 0; i < 4; i++ {
		aliases.P(fmt.Sprintf("serial%d", i), LabelRef(fmt.Sprintf("uart%d", i)))
	}
	for i := 0; i < 6; i++ {
		aliases.P(fmt.Sprintf("i2c%d", i), LabelRef(fmt.Sprintf("i2c%d", i)))
	}

	chosen := root.Child("", "chosen")
	chosen.P("stdout-path", Str("serial2:115200n8"))

	mem := root.Child("", "memory@80000000")
	mem.P("device_type", Str("memory"))
	// 16 GiB default window; the firmware never records board RAM size.
	mem.P("reg", Cells{"0x0", "0x80000000", "0x4", "0x0"})
}

func (e *Emitter) cpus(root *Node) {
	cores := mathx.Clamp(e.ctx.Summary.Cores, 1, 64)
	cpus := root.Child("", "cpus")
	cpus.P("#address-cells", Cells{"1"})
	cpus.P("#size-cells", Cells{"0"})
	for i := 0; i < cores; i++ {
		compat := "arm,cortex-a520"
		if i < 4 {
			compat = "arm,cortex-a720"
		}
		c := cpus.Child(fmt.Sprintf("cpu%d", i), fmt.Sprintf("cpu@%d", i))
		c.P("device_type", Str("cpu"))
		c.P("compatible", Str(compat))
		c.P("reg", Cells{fmt.Sprintf("0x%x", i)})
		c.P("enable-method", Str("psci"))
	}

	psci := root.Child("", "psci")
	psci.P("compatible", Str("arm,psci-1.0"))
	psci.P("method", Str("smc"))

	timer := root.Child("", "timer")
	timer.P("compatible", Str("arm,armv8-timer"))
	timer.P("interrupts", CellGroups{
		{"GIC_PPI", "13", "IRQ_TYPE_LEVEL_LOW"},
		{"GIC_PPI", "14", "IRQ_TYPE_LEVEL_LOW"},
		{"GIC_PPI", "11", "IRQ_TYPE_LEVEL_LOW"},
		{"GIC_PPI", "10", "IRQ_TYPE_LEVEL_LOW"},
	})
}

func (e *Emitter) gic(root *Node) {
	gic := root.Child("gic", "interrupt-controller@e010000")
	gic.P("compatible", Str("arm,gic-v3"))
	gic.F("interrupt-controller")
	gic.P("#interrupt-cells", Cells{"3"})
	gic.P("reg", CellGroups{
		{"0x0", "0x0e010000", "0x0", "0x00010000"},
		{"0x0", "0x0e090000", "0x0", "0x00200000"},
	})
}

// clockAndResets renders the clock controller (or a placeholder keeping
// later <&cru n> references well-formed) and the reset controllers.
func (e *Emitter) clockAndResets(root *Node) {
	var clk *types.Device
	for _, d := range e.devices {
		if symbols.Category(d.HID) == types.CatClock {
			clk = d
			break
		}
	}
	if clk != nil {
		n := root.Child("cru", e.nodeName(clk, types.CatClock))
		n.P("compatible", Str(e.compatible(clk)))
		if clk.Window != nil {
			n.P("reg", Reg64(clk.Window.Base, clk.Window.Len))
		}
		n.P("#clock-cells", Cells{"1"})
	} else {
		n := root.Child("cru", "sky1-clock")
		n.Comment = "no clock controller recovered from firmware"
		n.P("compatible", Str("fixed-clock"))
		n.P("clock-frequency", Cells{Dec(24000000)})
		n.P("#clock-cells", Cells{"1"})
	}

	var resets []*types.Device
	for _, d := range e.devices {
		if symbols.Category(d.HID) == types.CatReset {
			resets = append(resets, d)
		}
	}
	slices.SortStableFunc(resets, func(a, b *types.Device) int { return a.UID - b.UID })
	for _, d := range resets {
		name := e.nodeName(d, types.CatReset)
		if d.Window == nil {
			// Keep sibling names unique without a unit address.
			name = fmt.Sprintf("reset-controller-%d", d.UID)
		}
		n := root.Child(fmt.Sprintf("rst%d", d.UID), name)
		n.P("compatible", Str(e.compatible(d)))
		if d.Window != nil {
			n.P("reg", Reg64(d.Window.Base, d.Window.Len))
		}
		n.P("#reset-cells", Cells{"1"})
	}
}

func (e *Emitter) regulators(root *Node) {
	for _, r := range e.ctx.Regulators {
		slug := strx.Slug(r.Name)
		label := strings.ReplaceAll(slug, "-", "_")
		n := root.Child(label, "regulator-"+slug)
		n.P("compatible", Str("regulator-fixed"))
		n.P("regulator-name", Str(r.Name))
		n.P("regulator-min-microvolt", Cells{Dec(r.Microvolts)})
		n.P("regulator-max-microvolt", Cells{Dec(r.Microvolts)})
		if r.AlwaysOn {
			n.F("regulator-always-on")
		}
	}
}

// auxiliaries renders gpio-keys, gpio-leds, panel, and backlight; each
// only when the corresponding firmware declarations were found.
func (e *Emitter) auxiliaries(root *Node) {
	if len(e.ctx.Buttons) > 0 {
		keys := root.Child("", "gpio-keys")
		keys.P("compatible", Str("gpio-keys"))
		for _, btn := range e.ctx.Buttons {
			b := keys.Child("", "button-"+strx.Slug(btn.Label))
			b.P("label", Str(btn.Label))
			b.P("linux,code", Cells{Dec(btn.Code)})
		}
	}
	if len(e.ctx.LEDs) > 0 {
		leds := root.Child("", "leds")
		leds.P("compatible", Str("gpio-leds"))
		for i, led := range e.ctx.LEDs {
			l := leds.Child("", fmt.Sprintf("led-%d", i))
			l.P("label", Str(led.Label))
			if led.DefaultState != "" {
				l.P("default-state", Str(led.DefaultState))
			}
		}
	}

	var panel, pwm *types.Device
	for _, d := range e.devices {
		switch symbols.Category(d.HID) {
		case types.CatPanel:
			if panel == nil {
				panel = d
			}
		case types.CatPWM:
			if pwm == nil {
				pwm = d
			}
		}
	}
	if panel != nil {
		n := root.Child("panel", "panel")
		n.P("compatible", Str(e.compatible(panel)))
	}
	if pwm != nil {
		n := root.Child("backlight", "backlight")
		n.P("compatible", Str("pwm-backlight"))
		n.P("pwms", Cells{Ref(fmt.Sprintf("pwm%d", pwm.UID)), "0", "25000"})
	}
}

func (e *Emitter) soc(root *Node) {
	soc := root.Child("", "soc@0")
	soc.P("compatible", Str("simple-bus"))
	soc.P("#address-cells", Cells{"2"})
	soc.P("#size-cells", Cells{"2"})
	soc.F("ranges")

	buckets := map[types.Category][]*types.Device{}
	var miscOrder []types.Category
	for _, d := range e.devices {
		cat := symbols.Category(d.HID)
		if nonSoc[cat] || d.HID == "PRP0001" {
			continue
		}
		if _, seen := buckets[cat]; !seen && !slices.Contains(socOrder, cat) {
			miscOrder = append(miscOrder, cat)
		}
		buckets[cat] = append(buckets[cat], d)
	}
	slices.SortFunc(miscOrder, func(a, b types.Category) int {
		return strings.Compare(string(a), string(b))
	})

	order := append(append([]types.Category{}, socOrder...), miscOrder...)
	for _, cat := range order {
		devs := buckets[cat]
		slices.SortStableFunc(devs, func(a, b *types.Device) int { return a.UID - b.UID })
		for _, d := range devs {
			e.device(soc, cat, d)
		}
	}
}

// device renders one peripheral node with the common properties, then
// hands off to the category hook.
func (e *Emitter) device(soc *Node, cat types.Category, d *types.Device) {
	e.count(d, cat)
	n := soc.Child(e.label(cat, d), e.addrNodeName(cat, d))
	n.P("compatible", Str(e.compatible(d)))
	if d.Window != nil {
		n.P("reg", Reg64(d.Window.Base, d.Window.Len))
	}
	if d.Interrupt >= 0 {
		spi := symbols.SPI(d.Interrupt)
		if spi == 0 && d.Interrupt <= 32 {
			e.tally.IRQClamped++
		}
		n.P("interrupts", Cells{"GIC_SPI", Dec(spi), "IRQ_TYPE_LEVEL_HIGH"})
	}
	if d.Clock != nil {
		n.P("clocks", Cells{Ref("cru"), Dec(d.Clock.ID)})
		if d.Clock.Name != "" {
			n.P("clock-names", Str(d.Clock.Name))
		}
	}
	if d.Reset != nil {
		n.P("resets", Cells{Ref(symbols.ControllerLabel(d.Reset.Controller)), Dec(d.Reset.ID)})
		if d.Reset.Name != "" {
			n.P("reset-names", Str(d.Reset.Name))
		}
	}
	if len(d.PinGroups) > 0 {
		n.P("pinctrl-0", Cells{Ref(d.PinGroups[0])})
		n.P("pinctrl-names", Str("default"))
	}
	if h, ok := hooks[cat]; ok {
		h(e, d, n)
	}
	if !hasProp(n, "status") {
		n.P("status", Str("okay"))
	}
}

func hasProp(n *Node, name string) bool {
	for _, p := range n.Props {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (e *Emitter) count(d *types.Device, cat types.Category) {
	if _, known := symbols.Lookup(d.HID); known {
		e.tally.PerHID[d.HID]++
	} else {
		e.tally.PerHID[symbols.UnknownCompatible]++
	}
	e.tally.PerCat[cat]++
	if d.Status == 0 {
		e.tally.FWDisabled++
	}
}

// compatible resolves the binding string; unknown hardware-IDs pass
// through lowercased so the node is still well-formed.
func (e *Emitter) compatible(d *types.Device) string {
	if ent, ok := symbols.Lookup(d.HID); ok {
		if ent.Compatible != "" {
			return ent.Compatible
		}
		// PRP0001-style: the binding lives in the _DSD.
		return d.StrProp("compatible", strings.ToLower(d.HID))
	}
	return strings.ToLower(d.HID)
}

// label derives the flat, deterministic node label. Serial labels are
// offset by one: firmware numbers UARTs from 1.
func (e *Emitter) label(cat types.Category, d *types.Device) string {
	switch cat {
	case types.CatSerial:
		return fmt.Sprintf("uart%d", mathx.Max(d.UID-1, 0))
	case types.CatGPIO:
		// Keep the always-on bank labels disjoint from the FCH banks.
		if d.HID == "CIXH1004" {
			return fmt.Sprintf("s5_gpio%d", d.UID)
		}
		return fmt.Sprintf("gpio%d", d.UID)
	case types.CatMisc:
		return fmt.Sprintf("%s%d", strings.ReplaceAll(strx.Slug(d.HID), "-", "_"), d.UID)
	}
	return fmt.Sprintf("%s%d", cat, d.UID)
}

// nodeName is the node name for a category: the category stem, with an
// @base unit address when the device has a register window.
func (e *Emitter) nodeName(d *types.Device, cat types.Category) string {
	stem := map[types.Category]string{
		types.CatSerial: "serial",
		types.CatClock:  "clock-controller",
		types.CatReset:  "reset-controller",
		types.CatMisc:   "periph",
	}[cat]
	if stem == "" {
		stem = string(cat)
	}
	if d.Window == nil {
		return stem
	}
	return fmt.Sprintf("%s@%08x", stem, d.Window.Base)
}

// addrNodeName is nodeName for soc children; unknown devices fall back
// to the firmware symbolic name.
func (e *Emitter) addrNodeName(cat types.Category, d *types.Device) string {
	if _, known := symbols.Lookup(d.HID); !known {
		stem := strx.Slug(d.Name)
		if stem == "" {
			stem = "periph"
		}
		if d.Window == nil {
			return stem
		}
		return fmt.Sprintf("%s@%08x", stem, d.Window.Base)
	}
	return e.nodeName(d, cat)
}
