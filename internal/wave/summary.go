package wave

import (
	"fmt"
	"strings"
)

// DefaultMinDuration is the shortest episode that counts as a heatwave or
// coldwave; shorter runs are just hot or cold days.
const DefaultMinDuration = 3

// DayCount selects how the total number of extreme days is counted.
type DayCount int

const (
	// EpisodeDays counts every day inside a detected episode, bridged days included.
	EpisodeDays DayCount = iota
	// CrossingDays counts only days that crossed the threshold themselves.
	CrossingDays
)

// ParseDayCount accepts "episode" or "crossing".
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "episode", "episodes", "":
		return EpisodeDays, nil
	case "crossing", "crossings":
		return CrossingDays, nil
	default:
		return EpisodeDays, fmt.Errorf("unknown day-count policy %q (expected episode or crossing)", s)
	}
}

func (p DayCount) String() string {
	if p == CrossingDays {
		return "crossing"
	}
	return "episode"
}

// Summary holds the statistics of one station-year.
type Summary struct {
	EpisodeDays  int `json:"episode_days"`  // sum of all episode lengths
	CrossingDays int `json:"crossing_days"` // days crossing the threshold themselves
	Waves        int `json:"waves"`         // episodes of at least the minimum duration
	MaxDuration  int `json:"max_duration"`  // longest episode, qualifying or not
	WaveDays     int `json:"wave_days"`     // sum of qualifying episode lengths
}

// Summarize reduces episodes to their statistics. Zero-length episodes are
// ignored and an empty list yields an all-zero Summary.
func Summarize(episodes []Episode, minDuration int) Summary {
	var s Summary
	for _, ep := range episodes {
		n := ep.Len()
		if n == 0 {
			continue
		}

		s.EpisodeDays += n
		s.CrossingDays += ep.CrossingDays()
		if n > s.MaxDuration {
			s.MaxDuration = n
		}
		if n >= minDuration {
			s.Waves++
			s.WaveDays += n
		}
	}
	return s
}

// TotalDays returns the extreme-day count under the given policy.
func (s Summary) TotalDays(p DayCount) int {
	if p == CrossingDays {
		return s.CrossingDays
	}
	return s.EpisodeDays
}

// ReportedMaxDuration zeroes the maximum duration when even the longest
// episode is too short to qualify.
func (s Summary) ReportedMaxDuration(minDuration int) int {
	if s.MaxDuration < minDuration {
		return 0
	}
	return s.MaxDuration
}
