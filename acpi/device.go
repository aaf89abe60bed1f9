package acpi

import (
	"io"
	"os"
	"regexp"

	"github.com/pkg/errors"

	"dtsgen-go/types"
	"dtsgen-go/x/hexx"
)

// ---- Top-level device walk ----

var (
	reDevice   = regexp.MustCompile(`^( *)Device \(([A-Za-z0-9_]+)\)`)
	reHID      = regexp.MustCompile(`Name \(_HID, "([^"]+)"\)`)
	reUID      = regexp.MustCompile(`Name \(_UID, ([^)]+)\)`)
	reSTA      = regexp.MustCompile(`Name \(_STA, ([^)]+)\)`)
	reADR      = regexp.MustCompile(`Name \(_ADR, ([^)]+)\)`)
	rePkgIntro = regexp.MustCompile(`Name \((CLKT|RSTL|_DSD), Package`)
)

// childIndent is the column a nested Device( is declared at; top-level
// declarations sit at 8 spaces.
const childIndent = 12

// Stats counts degraded constructs seen while parsing. They are reported
// in the completion summary, never raised as errors.
type Stats struct {
	DroppedPNP   int
	ExtraWindows int
}

type openDev struct {
	dev     *types.Device
	closeAt int // device body closes when depth returns to this level
	opened  bool
	rp      *resourceParser
}

// Parser walks Device(...) declarations, composing the resource and
// package sub-parsers, and accumulates a normalized device list across
// one or more input tables.
type Parser struct {
	pnpAllow map[string]bool
	devices  []*types.Device
	stats    Stats

	depth int
	top   *openDev
	child *openDev
	pkg   *pkgParser
}

// NewParser builds a parser whose PNP* drop-filter lets the given
// hardware-IDs through.
func NewParser(pnpAllow []string) *Parser {
	allow := make(map[string]bool, len(pnpAllow))
	for _, id := range pnpAllow {
		allow[id] = true
	}
	return &Parser{pnpAllow: allow}
}

// ParseFile parses one disassembled table; the device list accumulates
// across calls.
func (p *Parser) ParseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return p.ParseReader(f)
}

// ParseReader parses one table from r.
func (p *Parser) ParseReader(r io.Reader) error {
	ts, err := NewTokenStream(r)
	if err != nil {
		return err
	}
	p.ParseStream(ts)
	return nil
}

// ParseStream runs the line walk over one table. Parser state never
// leaks across tables: all open devices are finalized at end-of-input.
func (p *Parser) ParseStream(ts *TokenStream) {
	p.depth = 0
	for _, ln := range ts.Lines() {
		p.feed(ln)
	}
	p.closeChild()
	p.closeTop()
	p.pkg = nil
}

// Devices returns the accumulated list, deduplicated by
// (hardware-ID, unique-ID) with the first occurrence winning.
func (p *Parser) Devices() []*types.Device {
	return Dedupe(p.devices)
}

// Stats returns the degraded-construct counters.
func (p *Parser) Stats() Stats { return p.stats }

func (p *Parser) feed(ln Line) {
	if m := reDevice.FindStringSubmatch(ln.Text); m != nil {
		p.pkg = nil
		if len(m[1]) >= childIndent && p.top != nil {
			p.closeChild()
			p.child = p.open(m[2])
		} else {
			p.closeChild()
			p.closeTop()
			p.top = p.open(m[2])
		}
		p.depth += ln.Delta
		return
	}

	p.depth += ln.Delta

	cur := p.cur()
	if cur == nil {
		return
	}

	// An active named package owns every line until it closes.
	if p.pkg != nil {
		if p.pkg.feed(ln.Text, ln.Delta) {
			p.pkg = nil
		}
		p.closeScopes()
		return
	}

	switch {
	case p.scanFields(cur.dev, ln.Text):
	default:
		if m := rePkgIntro.FindStringSubmatch(ln.Text); m != nil {
			p.pkg = newPkgParser(cur.dev, m[1])
		} else {
			cur.rp.feed(ln.Text)
		}
	}
	p.closeScopes()
}

// scanFields handles the single-line Name(...) constants.
func (p *Parser) scanFields(dev *types.Device, text string) bool {
	if m := reHID.FindStringSubmatch(text); m != nil {
		dev.HID = m[1]
		return true
	}
	if m := reUID.FindStringSubmatch(text); m != nil {
		if v, ok := hexx.ParseACPI(m[1]); ok {
			dev.UID = int(v)
		}
		return true
	}
	if m := reSTA.FindStringSubmatch(text); m != nil {
		if v, ok := hexx.ParseACPI(m[1]); ok {
			dev.Status = int(v)
		}
		return true
	}
	if m := reADR.FindStringSubmatch(text); m != nil {
		if v, ok := hexx.ParseACPI(m[1]); ok {
			dev.Addr = int(v)
		}
		return true
	}
	return false
}

func (p *Parser) open(name string) *openDev {
	dev := types.NewDevice(name)
	return &openDev{dev: dev, closeAt: p.depth, rp: newResourceParser(dev)}
}

func (p *Parser) cur() *openDev {
	if p.child != nil {
		return p.child
	}
	return p.top
}

// closeScopes finalizes devices whose body braces have closed.
func (p *Parser) closeScopes() {
	if p.child != nil {
		if p.depth > p.child.closeAt {
			p.child.opened = true
		} else if p.child.opened {
			p.closeChild()
		}
	}
	if p.top != nil {
		if p.depth > p.top.closeAt {
			p.top.opened = true
		} else if p.top.opened {
			p.closeTop()
		}
	}
}

func (p *Parser) closeChild() {
	if p.child == nil {
		return
	}
	p.stats.ExtraWindows += p.child.rp.ExtraWindows
	if p.top != nil {
		p.top.dev.Children = append(p.top.dev.Children, p.child.dev)
	}
	p.child = nil
}

func (p *Parser) closeTop() {
	if p.top == nil {
		return
	}
	p.stats.ExtraWindows += p.top.rp.ExtraWindows
	dev := p.top.dev
	p.top = nil
	if dev.HID == "" {
		return
	}
	if isPNP(dev.HID) && !p.pnpAllow[dev.HID] {
		p.stats.DroppedPNP++
		return
	}
	p.devices = append(p.devices, dev)
}

func isPNP(hid string) bool {
	return len(hid) >= 3 && hid[:3] == "PNP"
}

// Dedupe keeps the first occurrence per (hardware-ID, unique-ID).
func Dedupe(devs []*types.Device) []*types.Device {
	type key struct {
		hid string
		uid int
	}
	seen := map[key]bool{}
	out := devs[:0:0]
	for _, d := range devs {
		k := key{d.HID, d.UID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
