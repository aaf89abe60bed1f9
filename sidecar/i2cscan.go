package sidecar

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"dtsgen-go/types"
)

// ---- 06-i2c.txt (per-bus probe grid) ----

var (
	reBusHeader = regexp.MustCompile(`^--- i2c-([0-9]+) ---`)
	reScanRow   = regexp.MustCompile(`^[0-9a-f]0:`)
	reCell      = regexp.MustCompile(`\b([0-9a-f]{2})\b`)
)

// ReadI2CScan parses the probe grid dump. Every two-hex-digit cell in a
// detection row that is not "--" or "UU" is a detected 7-bit address on
// the section's bus. A missing file is returned as an error; the caller
// treats it as degraded input and decides how to report it.
func ReadI2CScan(path string) ([]types.I2CDetection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var out []types.I2CDetection
	bus := -1
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if m := reBusHeader.FindStringSubmatch(line); m != nil {
			bus, _ = strconv.Atoi(m[1])
			continue
		}
		if bus < 0 || !reScanRow.MatchString(line) {
			continue
		}
		// Strip the row offset; the remaining cells are probe results.
		cells := line[strings.Index(line, ":")+1:]
		for _, m := range reCell.FindAllStringSubmatch(cells, -1) {
			addr, err := strconv.ParseInt(m[1], 16, 16)
			if err != nil {
				continue
			}
			out = append(out, types.I2CDetection{Bus: bus, Addr: int(addr)})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return out, nil
}
