package types

// ---- Board identity & runtime-captured context ----

// BoardVariant selects the DTS root model/compatible pair.
type BoardVariant string

const (
	BoardSky1EVB BoardVariant = "sky1-evb" // baseline
	BoardOrionN  BoardVariant = "orion-o6n"
)

// Summary is the parsed 00-summary.txt.
type Summary struct {
	BootModeACPI bool
	Cores        int
	Product      string
	Variant      BoardVariant
}

// Regulator is one fixed-voltage rail, from a supplementary table or from
// the runtime dump.
type Regulator struct {
	Name       string
	Microvolts int
	AlwaysOn   bool
}

// LED is one labeled LED record recovered from a supplementary table.
// Controller/pin/trigger are never captured by the extraction step.
type LED struct {
	Label        string
	DefaultState string // "on"/"off", may be empty
}

// Button is a board input key. Code is a Linux input event code.
type Button struct {
	Label string
	Code  int
}

// I2CDetection is one probed address on one bus.
type I2CDetection struct {
	Bus  int
	Addr int // 7-bit
}

// BoardContext gathers everything the emitter needs besides the device
// list. Sidecar records are borrowed read-only by the emitter.
type BoardContext struct {
	Summary    Summary
	Regulators []Regulator // supplementary-table records win over the dump
	LEDs       []LED
	Buttons    []Button
	I2C        []I2CDetection
}
