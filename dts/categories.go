package dts

import (
	"fmt"

	"dtsgen-go/types"
	"dtsgen-go/x/strx"
)

// ---- Per-category emission hooks ----
//
// Each soc category may install one hook that decorates the device node
// after the common properties are in place. Registration panics on
// duplicates to catch mistakes at start-up.

// Hook decorates node n for device d.
type Hook func(e *Emitter, d *types.Device, n *Node)

var hooks = map[types.Category]Hook{}

// Register installs the hook for a category.
func Register(cat types.Category, h Hook) {
	if _, dup := hooks[cat]; dup {
		panic("dts: duplicate hook for category " + string(cat))
	}
	hooks[cat] = h
}

func init() {
	Register(types.CatI2C, i2cHook)
	Register(types.CatSerial, serialHook)
	Register(types.CatGPIO, gpioHook)
	Register(types.CatWatchdog, watchdogHook)
	Register(types.CatEthernet, ethernetHook)
}

// DefaultI2CFreq is used when the firmware declared no clock-frequency.
const DefaultI2CFreq = 400000

func i2cHook(e *Emitter, d *types.Device, n *Node) {
	n.P("clock-frequency", Cells{Dec(int(d.IntProp("clock-frequency", DefaultI2CFreq)))})
	n.P("#address-cells", Cells{"1"})
	n.P("#size-cells", Cells{"0"})
	n.P("status", Str("okay"))
	for _, det := range e.ctx.I2C {
		if det.Bus != d.UID {
			continue
		}
		c := n.Child("", fmt.Sprintf("device@%x", det.Addr))
		c.Comment = "unidentified device reported by the bus probe"
		c.P("reg", Cells{fmt.Sprintf("0x%x", det.Addr)})
	}
}

func serialHook(e *Emitter, d *types.Device, n *Node) {
	if d.UID == e.consoleUID {
		n.P("status", Str("okay"))
	} else {
		n.P("status", Str("disabled"))
	}
}

func gpioHook(e *Emitter, d *types.Device, n *Node) {
	n.F("gpio-controller")
	n.P("#gpio-cells", Cells{"2"})
	n.F("interrupt-controller")
	n.P("#interrupt-cells", Cells{"2"})
	n.P("status", Str("okay"))
}

func watchdogHook(e *Emitter, d *types.Device, n *Node) {
	n.P("status", Str("disabled"))
}

func ethernetHook(e *Emitter, d *types.Device, n *Node) {
	n.P("status", Str("okay"))
	if len(d.Children) == 0 {
		return
	}
	mdio := n.Child("", "mdio")
	mdio.P("#address-cells", Cells{"1"})
	mdio.P("#size-cells", Cells{"0"})
	for _, phy := range d.Children {
		if phy.Addr < 0 {
			continue
		}
		c := mdio.Child("", fmt.Sprintf("ethernet-phy@%d", phy.Addr))
		c.P("compatible", Str(strx.Coalesce(phy.StrProp("compatible", ""), "ethernet-phy-ieee802.3-c22")))
		c.P("reg", Cells{Dec(phy.Addr)})
	}
}
