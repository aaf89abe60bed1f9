package hexx

import "testing"

func TestParseACPI(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"Zero", 0, true},
		{"One", 1, true},
		{"0x03", 3, true},
		{"0x0000013E,", 0x13E, true},
		{"12", 12, true},
		{"  0x61A80 ", 0x61A80, true},
		{"garbage", 0, false},
		{`"str"`, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseACPI(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseACPI(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseHex(t *testing.T) {
	if v, ok := ParseHex("0x04010000"); !ok || v != 0x04010000 {
		t.Fatalf("ParseHex = (%#x, %v)", v, ok)
	}
	if _, ok := ParseHex("04010000"); ok {
		t.Fatalf("unprefixed literal accepted")
	}
}
