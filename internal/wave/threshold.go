package wave

import (
	"fmt"
	"slices"
	"strconv"

	"tempwave/internal/dataset"
)

// DefaultLeapDayIndex is the position of Feb 29 in a threshold table that
// starts on Oct 1 (Oct+Nov+Dec+Jan+Feb 1..28 = 151 days).
const DefaultLeapDayIndex = 151

// ThresholdSpec is either one fixed threshold for every day and station, or a
// per-day table with one column per station.
type ThresholdSpec struct {
	fixed float64
	daily *dataset.ThresholdTable
}

// Fixed returns a spec comparing every day of every station against v.
func Fixed(v float64) ThresholdSpec {
	return ThresholdSpec{fixed: v}
}

// Daily returns a spec backed by a per-day, per-station table.
func Daily(t *dataset.ThresholdTable) ThresholdSpec {
	return ThresholdSpec{daily: t}
}

// IsDaily reports whether the spec is table-based.
func (s ThresholdSpec) IsDaily() bool {
	return s.daily != nil
}

// Label names the threshold in output file names: th_27, th_-15 or th_QUANTIL.
func (s ThresholdSpec) Label() string {
	if s.daily != nil {
		return "th_QUANTIL"
	}
	return "th_" + strconv.FormatFloat(s.fixed, 'f', -1, 64)
}

// Defines reports whether the spec has thresholds for station. Fixed specs
// define every station.
func (s ThresholdSpec) Defines(station string) bool {
	if s.daily == nil {
		return true
	}
	_, ok := s.daily.Column(station)
	return ok
}

// Resolve returns one threshold per day for a station whose series has the
// given number of days. A per-day column with exactly one extra entry is
// reconciled by dropping the entry at leapDayIndex (the Feb 29 row in a year
// without one); any other length mismatch is a ThresholdAlignmentError.
func (s ThresholdSpec) Resolve(station string, days, leapDayIndex int) ([]float64, error) {
	if s.daily == nil {
		out := make([]float64, days)
		for i := range out {
			out[i] = s.fixed
		}
		return out, nil
	}

	col, ok := s.daily.Column(station)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStation, station)
	}

	switch {
	case len(col) == days:
		return slices.Clone(col), nil
	case len(col) == days+1 && leapDayIndex >= 0 && leapDayIndex < len(col):
		out := make([]float64, 0, days)
		out = append(out, col[:leapDayIndex]...)
		return append(out, col[leapDayIndex+1:]...), nil
	default:
		return nil, &ThresholdAlignmentError{Station: station, Want: days, Got: len(col)}
	}
}
