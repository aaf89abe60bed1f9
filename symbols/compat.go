package symbols

import "dtsgen-go/types"

// UnknownCompatible is the sentinel used in the diagnostic tally for
// hardware-IDs missing from the table. The device is still emitted.
const UnknownCompatible = "unknown"

// Entry maps one firmware hardware-ID to its kernel binding.
type Entry struct {
	Compatible string
	Category   types.Category
}

// compat is the closed hardware-ID table for the Sky1 platform. Read-only
// after init.
var compat = map[string]Entry{
	// Serial
	"ARMH0011": {"arm,pl011", types.CatSerial},
	"CIXH2000": {"cix,sky1-uart", types.CatSerial},

	// I2C / SPI
	"CIXH200B": {"cdns,i2c-r1p14", types.CatI2C},
	"CIXH2003": {"cix,sky1-spi", types.CatSPI},

	// GPIO banks (main power domain and always-on domain)
	"CIXH1003": {"cix,sky1-gpio", types.CatGPIO},
	"CIXH1004": {"cix,sky1-s5-gpio", types.CatGPIO},

	// PWM
	"CIXH2005": {"cix,sky1-pwm", types.CatPWM},

	// Watchdog / timers
	"CIXH2010": {"arm,sbsa-gwdt", types.CatWatchdog},
	"CIXH2130": {"cix,sky1-timer", types.CatMisc},

	// PCIe root ports
	"CIXH2020": {"cix,sky1-pcie-host", types.CatPCIe},
	"CIXH2021": {"cix,sky1-pcie-host", types.CatPCIe},

	// USB
	"CIXH2030": {"generic-xhci", types.CatUSB},
	"CIXH2031": {"snps,dwc3", types.CatUSB},
	"CIXH2032": {"cix,sky1-usb2-phy", types.CatUSB},

	// DMA
	"CIXH2040": {"cix,sky1-gpdma", types.CatDMA},

	// RTC
	"CIXH2050": {"cix,sky1-rtc", types.CatRTC},

	// IOMMU
	"CIXH2060": {"arm,smmu-v3", types.CatIOMMU},
	"ARMHD620": {"arm,smmu-v3", types.CatIOMMU},

	// Mailboxes
	"CIXH2070": {"cix,sky1-mbox", types.CatMailbox},

	// Reset / clock / power-domain controllers
	"CIXH2080": {"cix,sky1-reset", types.CatReset},
	"CIXH2090": {"cix,sky1-cru", types.CatClock},
	"CIXH20A0": {"cix,sky1-pd", types.CatPower},

	// Storage
	"CIXH2110": {"cix,sky1-dwcmshc", types.CatMisc},
	"CIXH2111": {"cix,sky1-ufshc", types.CatMisc},

	// Crypto / RNG
	"CIXH2120": {"cix,sky1-trng", types.CatMisc},

	// Thermal
	"CIXH3010": {"cix,sky1-tsensor", types.CatThermal},
	"CIXH3020": {"cix,sky1-pvt", types.CatThermal},

	// GPU / NPU / video
	"CIXH4000": {"arm,mali-valhall-csf", types.CatGPU},
	"CIXH4010": {"cix,sky1-npu", types.CatNPU},
	"CIXH5000": {"cix,sky1-vpu", types.CatVPU},
	"CIXH5001": {"cix,sky1-jpu", types.CatVPU},

	// Display
	"CIXH5010": {"cix,sky1-dp", types.CatDP},
	"CIXH5011": {"cix,sky1-dpu", types.CatDP},
	"CIXH5012": {"cix,sky1-edp-panel", types.CatPanel},

	// Camera pipeline
	"CIXH5020": {"cix,sky1-csi", types.CatMisc},
	"CIXH5021": {"cix,sky1-isp", types.CatMisc},

	// Audio
	"CIXH6000": {"cix,sky1-audss", types.CatAudio},
	"CIXH6001": {"cix,sky1-i2s", types.CatAudio},
	"CIXH6002": {"cix,sky1-hda", types.CatAudio},

	// Ethernet
	"CIXH7020": {"cix,sky1-gmac", types.CatEthernet},

	// Board input devices let through the PNP filter
	"PNP0C0C":  {"gpio-keys", types.CatInput},
	"ACPI0011": {"gpio-keys", types.CatInput},

	// Generic device-tree descriptor; compatible comes from its _DSD
	"PRP0001": {"", types.CatMisc},
}

// Lookup returns the table entry for hid.
func Lookup(hid string) (Entry, bool) {
	e, ok := compat[hid]
	return e, ok
}

// Category buckets hid for node naming; unknown IDs land in misc.
func Category(hid string) types.Category {
	if e, ok := compat[hid]; ok {
		return e.Category
	}
	return types.CatMisc
}
