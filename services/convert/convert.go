package convert

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"dtsgen-go/acpi"
	"dtsgen-go/dts"
	"dtsgen-go/errcode"
	"dtsgen-go/sidecar"
	"dtsgen-go/types"
	"dtsgen-go/x/strx"
)

// Input layout inside the extraction directory.
const (
	summaryFile    = "00-summary.txt"
	primaryTable   = "acpi/DSDT.dsl"
	suppTableGlob  = "acpi/SSDT*.dsl"
	i2cScanFile    = "06-i2c.txt"
	regulatorsFile = "12-regulators.txt"
)

// KeyPower is the Linux input event code hard-wired for the board power
// button; the firmware never declares a code.
const KeyPower = 116

// Options configures one conversion run.
type Options struct {
	ExtractDir string
	OutPath    string   // default <ExtractDir>/generated.dts
	PNPAllow   []string // hardware-IDs let through the PNP* drop-filter
	ConsoleUID int      // UART unique-ID kept "okay"
}

// DefaultPNPAllow lets board input devices and generic device-tree
// descriptors through while generic bridges stay dropped.
func DefaultPNPAllow() []string {
	return []string{"PNP0C0C", "ACPI0011", "PRP0001"}
}

// Run performs one extraction-directory → DTS conversion.
func Run(opts Options) error {
	if opts.ExtractDir == "" {
		return &errcode.E{C: errcode.BadArgs, Op: "run", Msg: "extraction directory required"}
	}
	if st, err := os.Stat(opts.ExtractDir); err != nil || !st.IsDir() {
		return &errcode.E{C: errcode.MissingDir, Op: "run", Msg: opts.ExtractDir, Err: err}
	}
	out := strx.Coalesce(opts.OutPath, filepath.Join(opts.ExtractDir, "generated.dts"))

	sum, err := sidecar.ReadSummary(filepath.Join(opts.ExtractDir, summaryFile))
	if err != nil {
		return &errcode.E{C: errcode.MissingSummary, Op: "run", Err: err}
	}
	if !sum.BootModeACPI {
		log.Warnf("summary lacks the ACPI boot marker (%v); tables may be stale", errcode.NoBootMarker)
	}
	log.Infof("board: %s (%s), %d cores", strx.Coalesce(sum.Product, "unknown"), sum.Variant, sum.Cores)

	parser := acpi.NewParser(opts.PNPAllow)
	primary := filepath.Join(opts.ExtractDir, primaryTable)
	if err := parser.ParseFile(primary); err != nil {
		return &errcode.E{C: errcode.MissingTable, Op: "run", Err: err}
	}
	supp, _ := filepath.Glob(filepath.Join(opts.ExtractDir, suppTableGlob))
	sort.Strings(supp)
	if len(supp) == 0 {
		log.Warn("no supplementary tables found; table-declared regulators unavailable")
	}
	for _, path := range supp {
		if err := parser.ParseFile(path); err != nil {
			log.Warnf("supplementary table %s unreadable: %v", filepath.Base(path), err)
		}
	}
	devices := parser.Devices()
	log.Infof("parsed %d devices from %d tables", len(devices), 1+len(supp))

	ctx := &types.BoardContext{Summary: sum}
	devices = extractBoardRecords(devices, ctx)

	if scan, err := sidecar.ReadI2CScan(filepath.Join(opts.ExtractDir, i2cScanFile)); err == nil {
		ctx.I2C = scan
	} else {
		log.Warnf("no i2c probe sidecar (%v); child placeholders omitted", errcode.NoSidecar)
	}
	if len(ctx.Regulators) == 0 {
		if regs, err := sidecar.ReadRegulators(filepath.Join(opts.ExtractDir, regulatorsFile)); err == nil {
			ctx.Regulators = regs
		} else {
			log.Warnf("no regulator records (%v); regulators omitted", errcode.NoSidecar)
		}
	}

	emitter := dts.NewEmitter(devices, ctx, opts.ConsoleUID)
	if err := writeDTS(out, emitter); err != nil {
		return err
	}
	report(parser.Stats(), emitter.Tally(), out)
	return nil
}

// writeDTS renders into the output file in a single pass; the handle is
// closed on every exit path.
func writeDTS(path string, e *dts.Emitter) error {
	f, err := os.Create(path)
	if err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "write", Msg: path, Err: err}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := e.Render(w); err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "write", Msg: path, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &errcode.E{C: errcode.WriteFailed, Op: "write", Msg: path, Err: err}
	}
	return nil
}

// extractBoardRecords splits record-bearing declarations (fixed
// regulators, LEDs, input buttons) out of the device list and into the
// board context. Everything else passes through untouched.
func extractBoardRecords(devices []*types.Device, ctx *types.BoardContext) []*types.Device {
	kept := devices[:0:0]
	for _, d := range devices {
		switch {
		case d.HID == "PRP0001" && d.StrProp("compatible", "") == "regulator-fixed":
			ctx.Regulators = append(ctx.Regulators, types.Regulator{
				Name:       strx.Coalesce(d.StrProp("regulator-name", ""), strx.Slug(d.Name)),
				Microvolts: int(d.IntProp("regulator-min-microvolt", 0)),
				AlwaysOn:   d.HasFlag("regulator-always-on"),
			})
		case d.HID == "PRP0001" && d.StrProp("compatible", "") == "gpio-leds":
			ctx.LEDs = append(ctx.LEDs, types.LED{
				Label:        strx.Coalesce(d.StrProp("label", ""), strx.Slug(d.Name)),
				DefaultState: d.StrProp("default-state", ""),
			})
		case d.HID == "ACPI0011" || d.HID == "PNP0C0C":
			if len(ctx.Buttons) == 0 {
				ctx.Buttons = append(ctx.Buttons, types.Button{Label: "power", Code: KeyPower})
			}
		default:
			kept = append(kept, d)
		}
	}
	return kept
}
