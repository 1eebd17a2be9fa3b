// Package validate enforces the value constraints of user-settable
// generation properties.
package validate

import (
	"strconv"
	"strings"
)

// Formats lists the accepted sheet formats in display order.
var Formats = []string{"A0", "A1", "A2", "A3", "A4"}

const (
	// BrightnessMin is the inclusive lower brightness bound.
	BrightnessMin = 0
	// BrightnessMax is the inclusive upper brightness bound.
	BrightnessMax = 255
)

// Format normalizes a sheet format token to upper case and reports whether
// it is a member of the accepted set.
func Format(token string) (string, bool) {
	norm := strings.ToUpper(strings.TrimSpace(token))
	for _, f := range Formats {
		if norm == f {
			return norm, true
		}
	}
	return "", false
}

// Brightness parses a brightness level and checks the [0,255] bounds.
func Brightness(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if v < BrightnessMin || v > BrightnessMax {
		return 0, false
	}
	return v, true
}

// DetailThreshold parses the small-details remover threshold. There is no
// upper bound; negative values would break the session invariant and are
// rejected.
func DetailThreshold(raw string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatCommands renders the accepted formats as slash commands, e.g.
// "/A0 /A1 /A2 /A3 /A4", for rejection and menu messages.
func FormatCommands() string {
	var b strings.Builder
	for i, f := range Formats {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('/')
		b.WriteString(f)
	}
	return b.String()
}
