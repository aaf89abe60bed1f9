package acpi

import (
	"regexp"
	"strings"

	"dtsgen-go/types"
	"dtsgen-go/x/hexx"
)

// ---- Named packages: CLKT, RSTL, _DSD ----

var (
	reQuoted  = regexp.MustCompile(`"([^"]*)"`)
	reKeyLine = regexp.MustCompile(`^\s*"([^"]+)",$`)
	reBareKey = regexp.MustCompile(`^\s*"([^"]+)"$`)
	reRstSym  = regexp.MustCompile(`^\s*(RST[0-9]),?$`)
)

// pkgParser consumes one named package introduced on its Name(...) line
// and closed when brace depth returns to the introducing level. kind is
// the package name ("CLKT", "RSTL", "_DSD").
type pkgParser struct {
	dev    *types.Device
	kind   string
	depth  int
	opened bool

	// CLKT / RSTL accumulation
	clkID   int
	clkName string
	haveID  bool
	rstCtl  string
	rstID   int
	haveRst bool
	rstName string

	// _DSD pending key
	key     string
	haveKey bool
}

func newPkgParser(dev *types.Device, kind string) *pkgParser {
	return &pkgParser{dev: dev, kind: kind}
}

// feed consumes one line; returns true when the package closed.
func (pp *pkgParser) feed(text string, delta int) bool {
	pp.depth += delta
	if pp.depth > 0 {
		pp.opened = true
	}
	switch pp.kind {
	case "CLKT":
		pp.feedCLKT(text)
	case "RSTL":
		pp.feedRSTL(text)
	case "_DSD":
		pp.feedDSD(text)
	}
	if pp.opened && pp.depth <= 0 {
		pp.finish()
		return true
	}
	return false
}

func (pp *pkgParser) feedCLKT(text string) {
	if strings.Contains(text, "Package") {
		return
	}
	if !pp.haveID {
		if m := reBareHex.FindString(text); m != "" {
			if v, ok := hexx.ParseHex(m); ok {
				pp.clkID = int(v)
				pp.haveID = true
				return
			}
		}
	}
	if pp.clkName == "" {
		if m := reQuoted.FindStringSubmatch(text); m != nil && m[1] != "" {
			pp.clkName = m[1]
		}
	}
}

func (pp *pkgParser) feedRSTL(text string) {
	if pp.rstCtl == "" {
		if m := reRstSym.FindStringSubmatch(text); m != nil {
			pp.rstCtl = m[1]
		}
		return
	}
	if !pp.haveRst {
		if m := reBareHex.FindString(text); m != "" {
			if v, ok := hexx.ParseHex(m); ok {
				pp.rstID = int(v)
				pp.haveRst = true
				return
			}
		}
	}
	if pp.rstName == "" {
		if m := reQuoted.FindStringSubmatch(text); m != nil && m[1] != "" {
			pp.rstName = m[1]
		}
	}
}

func (pp *pkgParser) feedDSD(text string) {
	if strings.Contains(text, "ToUUID") {
		return
	}
	if pp.haveKey {
		// Value: quoted string, or hex/decimal literal.
		if m := reQuoted.FindStringSubmatch(text); m != nil {
			pp.dev.Props[pp.key] = types.PropValue{Kind: types.PropString, Str: m[1]}
			pp.haveKey = false
			return
		}
		lit := strings.TrimSuffix(strings.TrimSpace(text), ",")
		if v, ok := hexx.ParseACPI(lit); ok {
			pp.dev.Props[pp.key] = types.PropValue{Kind: types.PropInt, Int: v}
			pp.haveKey = false
			return
		}
		// No value followed: the pending name was a bare flag.
		pp.dev.Props[pp.key] = types.PropValue{Kind: types.PropFlag}
		pp.haveKey = false
		// fall through so this line can still start a new pair
	}
	if m := reKeyLine.FindStringSubmatch(text); m != nil {
		pp.key = m[1]
		pp.haveKey = true
		return
	}
	if m := reBareKey.FindStringSubmatch(text); m != nil {
		pp.dev.Props[m[1]] = types.PropValue{Kind: types.PropFlag}
	}
}

func (pp *pkgParser) finish() {
	switch pp.kind {
	case "CLKT":
		if pp.haveID {
			pp.dev.Clock = &types.ClockRef{ID: pp.clkID, Name: pp.clkName}
		}
	case "RSTL":
		if pp.rstCtl != "" && pp.haveRst {
			pp.dev.Reset = &types.ResetRef{Controller: pp.rstCtl, ID: pp.rstID, Name: pp.rstName}
		}
	case "_DSD":
		if pp.haveKey {
			pp.dev.Props[pp.key] = types.PropValue{Kind: types.PropFlag}
			pp.haveKey = false
		}
	}
}
