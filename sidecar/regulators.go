package sidecar

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"dtsgen-go/types"
)

// ---- 12-regulators.txt (runtime regulator dump) ----

// ReadRegulators parses the line-oriented dump: one rail per line,
// `<name> <microvolts> [always-on]`, names may be shell-quoted. These
// records are used only when no fixed regulators were recovered from the
// supplementary tables.
func ReadRegulators(path string) ([]types.Regulator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var out []types.Regulator
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shlex.Split(line)
		if err != nil || len(fields) < 2 {
			log.Warnf("regulator dump: skipping malformed line %q", line)
			continue
		}
		uv, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Warnf("regulator dump: bad microvolt value %q", fields[1])
			continue
		}
		reg := types.Regulator{Name: fields[0], Microvolts: uv}
		for _, f := range fields[2:] {
			if f == "always-on" {
				reg.AlwaysOn = true
			}
		}
		out = append(out, reg)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return out, nil
}
