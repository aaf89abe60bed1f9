package symbols

import "strings"

// ---- Controller label translation ----

// controllerLabels maps firmware controller symbols to the stable DTS
// labels the bindings use. GPI0..3 are the main ("FCH") power-domain GPIO
// banks, GPI4..6 the always-on ("S5") banks.
var controllerLabels = map[string]string{
	"GPI0": "fch_gpio0",
	"GPI1": "fch_gpio1",
	"GPI2": "fch_gpio2",
	"GPI3": "fch_gpio3",
	"GPI4": "s5_gpio0",
	"GPI5": "s5_gpio1",
	"GPI6": "s5_gpio2",
	"RST0": "rst0",
	"RST1": "rst1",
	"CRU0": "cru",
}

// translated is the value set of controllerLabels, for idempotence.
var translated = func() map[string]bool {
	m := make(map[string]bool, len(controllerLabels))
	for _, v := range controllerLabels {
		m[v] = true
	}
	return m
}()

// ControllerLabel translates a firmware controller symbol into its DTS
// label. The translation is total and idempotent: already-translated
// labels map to themselves, anything else is lowercased.
func ControllerLabel(name string) string {
	name = strings.TrimPrefix(name, `\_SB.`)
	if l, ok := controllerLabels[name]; ok {
		return l
	}
	if translated[name] {
		return name
	}
	return strings.ToLower(name)
}
