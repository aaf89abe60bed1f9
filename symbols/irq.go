package symbols

import "dtsgen-go/x/mathx"

// spiOffset is the architectural base of the shared-peripheral-interrupt
// range on GICv3.
const spiOffset = 32

// SPI converts a firmware-absolute interrupt number to a bus-relative SPI
// number. Values at or below the offset come from failed parses and clamp
// to 0.
func SPI(n int) int {
	return mathx.Max(n-spiOffset, 0)
}
