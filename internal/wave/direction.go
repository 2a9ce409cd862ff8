package wave

import (
	"fmt"
	"strings"
)

// Direction selects which side of the threshold counts as extreme.
type Direction int

const (
	// Heat counts days at or above the threshold.
	Heat Direction = iota
	// Cold counts days at or below the threshold.
	Cold
)

// Default fixed thresholds in degrees, as used for daily maximum (heat) and
// daily minimum (cold) temperature series.
const (
	DefaultHeatThreshold = 27.0
	DefaultColdThreshold = -15.0
)

// ParseDirection accepts "heat" or "cold" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heat", "heatwave":
		return Heat, nil
	case "cold", "coldwave":
		return Cold, nil
	default:
		return Heat, fmt.Errorf("unknown mode %q (expected heat or cold)", s)
	}
}

func (d Direction) String() string {
	if d == Cold {
		return "cold"
	}
	return "heat"
}

// Meets reports whether value crosses threshold in this direction.
// NaN on either side never crosses.
func (d Direction) Meets(value, threshold float64) bool {
	if d == Cold {
		return value <= threshold
	}
	return value >= threshold
}

// DefaultThreshold returns the fixed threshold used when none is configured.
func (d Direction) DefaultThreshold() float64 {
	if d == Cold {
		return DefaultColdThreshold
	}
	return DefaultHeatThreshold
}

// Title is the capitalised episode name used in output file names.
func (d Direction) Title() string {
	if d == Cold {
		return "Coldwave"
	}
	return "Heatwave"
}
