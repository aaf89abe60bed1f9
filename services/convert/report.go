package convert

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"dtsgen-go/acpi"
	"dtsgen-go/dts"
	"dtsgen-go/types"
)

// report prints the completion summary on the diagnostic stream:
// per-category counts, the per-hardware-ID tally, and the generated line
// count. Degraded constructs are counts here, never errors.
func report(stats acpi.Stats, tally dts.Tally, outPath string) {
	cats := make([]string, 0, len(tally.PerCat))
	for c := range tally.PerCat {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	for _, c := range cats {
		log.Infof("  %-10s %d", c, tally.PerCat[types.Category(c)])
	}

	hids := make([]string, 0, len(tally.PerHID))
	for h := range tally.PerHID {
		hids = append(hids, h)
	}
	sort.Strings(hids)
	for _, h := range hids {
		log.Infof("  %-10s x%d", h, tally.PerHID[h])
	}

	if stats.DroppedPNP > 0 {
		log.Infof("dropped %d PNP* devices", stats.DroppedPNP)
	}
	if stats.ExtraWindows > 0 {
		log.Infof("ignored %d extra memory windows", stats.ExtraWindows)
	}
	if tally.IRQClamped > 0 {
		log.Infof("clamped %d out-of-range interrupts", tally.IRQClamped)
	}
	if tally.FWDisabled > 0 {
		log.Infof("%d devices firmware-disabled (_STA = 0)", tally.FWDisabled)
	}
	log.Infof("wrote %s (%d lines)", outPath, tally.Lines)
}
