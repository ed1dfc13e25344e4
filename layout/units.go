package layout

import (
	"math"
	"strconv"
	"strings"
)

// This file defines the DSL length units and their conversion to canvas pixels.

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone    Unit = iota // bare numbers, treated as pixels
	UnitPX                  // pixels
	UnitPT                  // points
	UnitMM                  // millimeters
	UnitCM                  // centimeters
	UnitIN                  // inches
	UnitPercent             // percent of a reference extent
)

// PixelsPerInch fixes the physical-unit conversion (CSS reference pixel).
const PixelsPerInch = 96.0

// Conversion constants between pt and mm. The renderer draws at 1 px = 1 mm,
// so a pixel font size becomes a face size of px*MmToPt.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Pixels converts the length to pixels; reference is the extent a percentage
// refers to and is ignored for absolute units.
func (l Length) Pixels(reference int) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PixelsPerInch / 72
	case UnitMM:
		return l.Value * PixelsPerInch / 25.4
	case UnitCM:
		return l.Value * 10 * PixelsPerInch / 25.4
	case UnitIN:
		return l.Value * PixelsPerInch
	case UnitPercent:
		return l.Value / 100 * float64(reference)
	default:
		return l.Value
	}
}

// Px rounds Pixels to the nearest integer pixel.
func (l Length) Px(reference int) int {
	return int(math.Round(l.Pixels(reference)))
}

// ParseRawLengthStr parses a DSL length string preserving its unit.
// Unparseable input yields a zero length.
func ParseRawLengthStr(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}
