package acpi

import (
	"strings"
	"testing"

	"dtsgen-go/types"
)

const dsdtFixture = `    Scope (_SB)
    {
        Device (I2C0)
        {
            Name (_HID, "CIXH200B")  // _HID: Hardware ID
            Name (_UID, Zero)  // _UID: Unique ID
            Name (_CRS, ResourceTemplate ()
            {
                Memory32Fixed (ReadWrite,
                    0x04010000,         // Address Base
                    0x00010000,         // Address Length
                    )
                Interrupt (ResourceConsumer, Level, ActiveHigh, Exclusive, ,, )
                {
                    0x0000013E,
                }
                PinGroupFunction (Exclusive, 0x0000, "\\_SB.GPI0", 0x00, "pinctrl_fch_i2c0", ResourceConsumer, ,)
            })
            Name (_DSD, Package (0x02)
            {
                ToUUID ("daffd814-6eba-4d8c-8a91-bc9bbf4aa301"),
                Package (0x01)
                {
                    Package (0x02)
                    {
                        "clock-frequency",
                        0x00061A80
                    }
                }
            })
            Name (CLKT, Package (0x01)
            {
                Package (0x02)
                {
                    0xFD,
                    ""
                }
            })
            Name (RSTL, Package (0x01)
            {
                Package (0x03)
                {
                    RST1,
                    0x12,
                    "i2c_reset"
                }
            })
        }
        Device (URT2)
        {
            Name (_HID, "ARMH0011")  // _HID: Hardware ID
            Name (_UID, 0x03)  // _UID: Unique ID
            Name (_CRS, ResourceTemplate ()
            {
                Memory32Fixed (ReadWrite,
                    0x040D0000,         // Address Base
                    0x00001000,         // Address Length
                    )
                Interrupt (ResourceConsumer, Level, ActiveHigh, Exclusive, ,, )
                {
                    0x0000014A,
                }
            })
        }
        Device (PCI0)
        {
            Name (_HID, "PNP0A08")  // _HID: Hardware ID
            Name (_UID, One)  // _UID: Unique ID
        }
        Device (GPI2)
        {
            Name (_HID, "CIXH1003")  // _HID: Hardware ID
        }
        Device (BTN0)
        {
            Name (_HID, "PNP0C0C")  // _HID: Hardware ID
            Name (_CRS, ResourceTemplate ()
            {
                GpioIo (Exclusive, PullUp, 0x0000, 0x0000, IoRestrictionNone,
                    "\\_SB.GPI2", 0x00, ResourceConsumer, ,
                    )
                    {   // Pin list
                        0x0016
                    }
            })
        }
        Device (ETH0)
        {
            Name (_HID, "CIXH7020")  // _HID: Hardware ID
            Name (_UID, Zero)  // _UID: Unique ID
            Name (_CRS, ResourceTemplate ()
            {
                Memory32Fixed (ReadWrite,
                    0x04200000,
                    0x00010000,
                    )
            })
            Device (PHY0)
            {
                Name (_ADR, One)  // _ADR: Address
                Name (_DSD, Package (0x02)
                {
                    ToUUID ("daffd814-6eba-4d8c-8a91-bc9bbf4aa301"),
                    Package (0x01)
                    {
                        Package (0x02)
                        {
                            "compatible",
                            "ethernet-phy-ieee802.3-c22"
                        }
                    }
                })
            }
        }
    }
`

func parseFixture(t *testing.T, text string) []*types.Device {
	t.Helper()
	p := NewParser([]string{"PNP0C0C", "ACPI0011", "PRP0001"})
	if err := p.ParseReader(strings.NewReader(text)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return p.Devices()
}

func find(t *testing.T, devs []*types.Device, hid string) *types.Device {
	t.Helper()
	for _, d := range devs {
		if d.HID == hid {
			return d
		}
	}
	t.Fatalf("no device with HID %s", hid)
	return nil
}

func TestParse_I2CDevice(t *testing.T) {
	devs := parseFixture(t, dsdtFixture)
	d := find(t, devs, "CIXH200B")

	if d.UID != 0 {
		t.Fatalf("UID = %d, want 0", d.UID)
	}
	if d.Window == nil || d.Window.Base != 0x04010000 || d.Window.Len != 0x00010000 {
		t.Fatalf("window = %+v", d.Window)
	}
	if d.Interrupt != 0x13E {
		t.Fatalf("interrupt = %#x, want 0x13E", d.Interrupt)
	}
	if len(d.PinGroups) != 1 || d.PinGroups[0] != "pinctrl_fch_i2c0" {
		t.Fatalf("pin groups = %v", d.PinGroups)
	}
	if d.Clock == nil || d.Clock.ID != 0xFD || d.Clock.Name != "" {
		t.Fatalf("clock = %+v", d.Clock)
	}
	if d.Reset == nil || d.Reset.Controller != "RST1" || d.Reset.ID != 0x12 || d.Reset.Name != "i2c_reset" {
		t.Fatalf("reset = %+v", d.Reset)
	}
	if got := d.IntProp("clock-frequency", 0); got != 400000 {
		t.Fatalf("clock-frequency = %d, want 400000", got)
	}
}

func TestParse_UIDLiterals(t *testing.T) {
	devs := parseFixture(t, dsdtFixture)
	if d := find(t, devs, "ARMH0011"); d.UID != 3 {
		t.Fatalf("hex UID = %d, want 3", d.UID)
	}
	// Missing _UID defaults to 0.
	if d := find(t, devs, "CIXH1003"); d.UID != 0 {
		t.Fatalf("missing UID = %d, want 0", d.UID)
	}
}

func TestParse_PNPFilter(t *testing.T) {
	devs := parseFixture(t, dsdtFixture)
	for _, d := range devs {
		if d.HID == "PNP0A08" {
			t.Fatalf("PNP0A08 survived the drop filter")
		}
	}
	// Allow-listed PNP ids pass through.
	btn := find(t, devs, "PNP0C0C")
	if len(btn.Gpios) != 1 || btn.Gpios[0].Controller != "GPI2" || btn.Gpios[0].Pin != 0x16 {
		t.Fatalf("gpios = %v", btn.Gpios)
	}

	p := NewParser(nil)
	if err := p.ParseReader(strings.NewReader(dsdtFixture)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, d := range p.Devices() {
		if strings.HasPrefix(d.HID, "PNP") {
			t.Fatalf("%s survived with an empty allow-list", d.HID)
		}
	}
	if p.Stats().DroppedPNP != 2 {
		t.Fatalf("dropped = %d, want 2", p.Stats().DroppedPNP)
	}
}

func TestParse_ChildPHY(t *testing.T) {
	devs := parseFixture(t, dsdtFixture)
	mac := find(t, devs, "CIXH7020")
	if len(mac.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(mac.Children))
	}
	phy := mac.Children[0]
	if phy.Addr != 1 {
		t.Fatalf("phy addr = %d, want 1", phy.Addr)
	}
	if got := phy.StrProp("compatible", ""); got != "ethernet-phy-ieee802.3-c22" {
		t.Fatalf("phy compatible = %q", got)
	}
}

func TestParse_Dedupe(t *testing.T) {
	p := NewParser(nil)
	if err := p.ParseReader(strings.NewReader(dsdtFixture)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Same table again, as a supplementary input.
	if err := p.ParseReader(strings.NewReader(dsdtFixture)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	devs := p.Devices()
	seen := map[string]int{}
	for _, d := range devs {
		seen[d.HID]++
	}
	for hid, n := range seen {
		if n != 1 {
			t.Fatalf("%s emitted %d times after dedupe", hid, n)
		}
	}
}

func TestParse_MultipleWindowsFirstWins(t *testing.T) {
	const text = `        Device (DUAL)
        {
            Name (_HID, "CIXH2010")
            Name (_CRS, ResourceTemplate ()
            {
                Memory32Fixed (ReadWrite,
                    0x05000000,
                    0x00001000,
                    )
                Memory32Fixed (ReadWrite,
                    0x06000000,
                    0x00002000,
                    )
            })
        }
`
	p := NewParser(nil)
	if err := p.ParseReader(strings.NewReader(text)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := find(t, p.Devices(), "CIXH2010")
	if d.Window == nil || d.Window.Base != 0x05000000 {
		t.Fatalf("window = %+v, want first", d.Window)
	}
	if p.Stats().ExtraWindows != 1 {
		t.Fatalf("extra windows = %d, want 1", p.Stats().ExtraWindows)
	}
}

func TestParse_EmptyPackages(t *testing.T) {
	const text = `        Device (SPI0)
        {
            Name (_HID, "CIXH2003")
            Name (CLKT, Package (0x00)
            {
            })
            Name (RSTL, Package (0x00)
            {
            })
        }
`
	p := NewParser(nil)
	if err := p.ParseReader(strings.NewReader(text)); err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := find(t, p.Devices(), "CIXH2003")
	if d.Clock != nil || d.Reset != nil {
		t.Fatalf("empty packages produced refs: clock=%+v reset=%+v", d.Clock, d.Reset)
	}
}

func TestTokenStream_Depth(t *testing.T) {
	ts, err := NewTokenStream(strings.NewReader("a {\n{ }\n} }\n"))
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	want := []int{1, 0, -2}
	for i, ln := range ts.Lines() {
		if ln.Delta != want[i] {
			t.Fatalf("line %d delta = %d, want %d", i, ln.Delta, want[i])
		}
	}
}
