package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"dtsgen-go/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "00-summary.txt",
		"Boot mode: ACPI\nCores: 8\nProduct Name: Sky1 EVB\n")
	sum, err := ReadSummary(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !sum.BootModeACPI || sum.Cores != 8 || sum.Variant != types.BoardSky1EVB {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestReadSummary_VariantAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "00-summary.txt",
		"Boot mode: DT\nProduct Name: Orion O6N rev CD8160\n")
	sum, err := ReadSummary(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sum.BootModeACPI {
		t.Fatalf("boot marker detected in DT summary")
	}
	if sum.Cores != DefaultCores {
		t.Fatalf("cores = %d, want default %d", sum.Cores, DefaultCores)
	}
	if sum.Variant != types.BoardOrionN {
		t.Fatalf("variant = %v, want N-variant", sum.Variant)
	}
}

func TestReadSummary_Missing(t *testing.T) {
	if _, err := ReadSummary(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("missing summary accepted")
	}
}

func TestReadI2CScan(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "06-i2c.txt", `--- i2c-3 ---
     0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f
00:          -- -- -- -- -- -- -- -- -- -- -- -- --
50: -- 51 -- -- -- -- -- -- UU -- -- -- -- -- -- --
--- i2c-5 ---
     0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f
20: 20 -- -- -- -- -- -- -- -- -- -- -- -- -- -- --
`)
	scan, err := ReadI2CScan(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []types.I2CDetection{{Bus: 3, Addr: 0x51}, {Bus: 5, Addr: 0x20}}
	if len(scan) != len(want) {
		t.Fatalf("scan = %v, want %v", scan, want)
	}
	for i := range want {
		if scan[i] != want[i] {
			t.Fatalf("scan[%d] = %v, want %v", i, scan[i], want[i])
		}
	}
}

func TestReadRegulators(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "12-regulators.txt", `# runtime rails
vcc3v3_sys 3300000 always-on
"vcc 1v8 pmic" 1800000
bogus-line
vcc0v9 notanumber
`)
	regs, err := ReadRegulators(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("regs = %+v, want 2 records", regs)
	}
	if regs[0].Name != "vcc3v3_sys" || regs[0].Microvolts != 3300000 || !regs[0].AlwaysOn {
		t.Fatalf("regs[0] = %+v", regs[0])
	}
	if regs[1].Name != "vcc 1v8 pmic" || regs[1].Microvolts != 1800000 || regs[1].AlwaysOn {
		t.Fatalf("regs[1] = %+v", regs[1])
	}
}
