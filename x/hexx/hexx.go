package hexx

import (
	"strconv"
	"strings"
)

// ACPI integer literals: 0x hex, bare decimal, and the Zero/One/Ones
// shorthands the disassembler emits for _UID and friends.

// ParseACPI parses one literal. Returns (0, false) on anything else.
func ParseACPI(s string) (int64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")
	switch s {
	case "Zero":
		return 0, true
	case "One":
		return 1, true
	case "Ones":
		return -1, true
	}
	if v, ok := ParseHex(s); ok {
		return v, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseHex parses a 0x-prefixed literal (upper or lower case digits).
func ParseHex(s string) (int64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, false
	}
	return int64(v), true
}
