package wave

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrUnknownStation means a per-day threshold table has no column for the
	// station. The aggregator skips such stations.
	ErrUnknownStation = errors.New("station not defined in threshold table")

	// ErrMalformedYear means a year label is not a 4-digit year or season.
	// The aggregator skips such labels.
	ErrMalformedYear = errors.New("malformed year label")
)

// ThresholdAlignmentError reports a per-day threshold column whose length
// cannot be reconciled with the station's day sequence.
type ThresholdAlignmentError struct {
	Station string
	Year    string
	Want    int // days in the series
	Got     int // thresholds in the table
}

func (e *ThresholdAlignmentError) Error() string {
	if e.Year == "" {
		return fmt.Sprintf("station %q: %d thresholds cannot be aligned to %d days", e.Station, e.Got, e.Want)
	}
	return fmt.Sprintf("station %q year %s: %d thresholds cannot be aligned to %d days", e.Station, e.Year, e.Got, e.Want)
}

// 2021, or a season such as 2021/2022, 2021-22.
var yearLabel = regexp.MustCompile(`^\d{4}([/-](\d{2}|\d{4}))?$`)

// CheckYearLabel returns ErrMalformedYear for labels that do not name a year
// or season.
func CheckYearLabel(label string) error {
	if !yearLabel.MatchString(label) {
		return fmt.Errorf("%w: %q", ErrMalformedYear, label)
	}
	return nil
}
