package sidecar

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"dtsgen-go/types"
	"dtsgen-go/x/mathx"
)

// ---- 00-summary.txt ----

// DefaultCores is assumed when the summary carries no usable core count.
const DefaultCores = 12

// variantMarkers select the N-variant board identity when either appears
// in the DMI product name.
var variantMarkers = []string{"O6N", "CD8160"}

// ReadSummary parses the identification summary. The file itself is
// mandatory; individual lines are not.
func ReadSummary(path string) (types.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Summary{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	sum := types.Summary{Cores: DefaultCores, Variant: types.BoardSky1EVB}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "Boot mode:"):
			sum.BootModeACPI = strings.Contains(line, "ACPI")
		case strings.HasPrefix(line, "Cores:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Cores:"))); err == nil {
				sum.Cores = mathx.Clamp(n, 1, 64)
			}
		case strings.HasPrefix(line, "Product Name:"):
			sum.Product = strings.TrimSpace(strings.TrimPrefix(line, "Product Name:"))
		}
	}
	if err := sc.Err(); err != nil {
		return types.Summary{}, errors.Wrapf(err, "read %s", path)
	}
	for _, m := range variantMarkers {
		if strings.Contains(sum.Product, m) {
			sum.Variant = types.BoardOrionN
			break
		}
	}
	return sum, nil
}
