package symbols

import (
	"testing"

	"dtsgen-go/types"
)

func TestSPI(t *testing.T) {
	cases := []struct{ in, want int }{
		{0x13E, 286},
		{0x14A, 298},
		{33, 1},
		{32, 0},
		{0, 0},
		{7, 0},
	}
	for _, c := range cases {
		if got := SPI(c.in); got != c.want {
			t.Fatalf("SPI(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestControllerLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"GPI0", "fch_gpio0"},
		{"GPI3", "fch_gpio3"},
		{"GPI4", "s5_gpio0"},
		{"GPI6", "s5_gpio2"},
		{"RST0", "rst0"},
		{"RST1", "rst1"},
		{"CRU0", "cru"},
		{`\_SB.GPI1`, "fch_gpio1"},
	}
	for _, c := range cases {
		if got := ControllerLabel(c.in); got != c.want {
			t.Fatalf("ControllerLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestControllerLabel_Idempotent(t *testing.T) {
	for _, in := range []string{"GPI0", "GPI5", "RST1", "CRU0", "XYZ9"} {
		once := ControllerLabel(in)
		if twice := ControllerLabel(once); twice != once {
			t.Fatalf("ControllerLabel(%q): %q then %q", in, once, twice)
		}
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("CIXH200B")
	if !ok || e.Compatible != "cdns,i2c-r1p14" || e.Category != types.CatI2C {
		t.Fatalf("CIXH200B = %+v, %v", e, ok)
	}
	if _, ok := Lookup("XXXX9999"); ok {
		t.Fatalf("unknown hardware-ID resolved")
	}
	if Category("XXXX9999") != types.CatMisc {
		t.Fatalf("unknown hardware-ID not bucketed as misc")
	}
}
