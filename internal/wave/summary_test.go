package wave

import (
	"math/rand"
	"testing"
)

func TestSummarize_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		threshold   float64
		dir         Direction
		want        Summary
		reportedMax int
	}{
		{
			name:        "two-day gap splits episodes",
			values:      []float64{35, 36, 20, 20, 35, 36, 35},
			threshold:   30,
			dir:         Heat,
			want:        Summary{EpisodeDays: 5, CrossingDays: 5, Waves: 1, MaxDuration: 3, WaveDays: 3},
			reportedMax: 3,
		},
		{
			name:        "one-day gap joins episodes",
			values:      []float64{35, 36, 20, 35, 36, 35},
			threshold:   30,
			dir:         Heat,
			want:        Summary{EpisodeDays: 6, CrossingDays: 5, Waves: 1, MaxDuration: 6, WaveDays: 6},
			reportedMax: 6,
		},
		{
			name:        "single-day bridge",
			values:      []float64{32, 31, 29, 33, 34},
			threshold:   30,
			dir:         Heat,
			want:        Summary{EpisodeDays: 5, CrossingDays: 4, Waves: 1, MaxDuration: 5, WaveDays: 5},
			reportedMax: 5,
		},
		{
			name:        "two-day gap",
			values:      []float64{32, 31, 20, 20, 33},
			threshold:   30,
			dir:         Heat,
			want:        Summary{EpisodeDays: 3, CrossingDays: 3, Waves: 0, MaxDuration: 2, WaveDays: 0},
			reportedMax: 0,
		},
		{
			name:        "cold fixed threshold",
			values:      []float64{-16, -17, -14, -18, -19},
			threshold:   -15,
			dir:         Cold,
			want:        Summary{EpisodeDays: 5, CrossingDays: 4, Waves: 1, MaxDuration: 5, WaveDays: 5},
			reportedMax: 5,
		},
		{
			name:        "no crossings",
			values:      []float64{1, 2, 3},
			threshold:   30,
			dir:         Heat,
			want:        Summary{},
			reportedMax: 0,
		},
		{
			name:        "empty series",
			values:      nil,
			threshold:   30,
			dir:         Heat,
			want:        Summary{},
			reportedMax: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eps := Detect(tt.values, fixed(len(tt.values), tt.threshold), tt.dir)
			got := Summarize(eps, DefaultMinDuration)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if m := got.ReportedMaxDuration(DefaultMinDuration); m != tt.reportedMax {
				t.Errorf("Expected reported max %d, got %d", tt.reportedMax, m)
			}
		})
	}
}

// The two day-count conventions differ exactly by the number of bridged days.
func TestSummary_DayCountPolicies(t *testing.T) {
	values := []float64{32, 31, 29, 33, 34, 10, 10, 31, 10, 31}
	eps := Detect(values, fixed(len(values), 30), Heat)
	s := Summarize(eps, DefaultMinDuration)

	if got := s.TotalDays(EpisodeDays); got != 8 {
		t.Errorf("Episode policy: expected 8 days, got %d", got)
	}
	if got := s.TotalDays(CrossingDays); got != 6 {
		t.Errorf("Crossing policy: expected 6 days, got %d", got)
	}

	bridged := 0
	for _, ep := range eps {
		bridged += len(ep.Bridged)
	}
	if s.EpisodeDays-s.CrossingDays != bridged {
		t.Errorf("Policies should differ by %d bridged days, got %d", bridged, s.EpisodeDays-s.CrossingDays)
	}

	for _, tt := range []struct {
		in   string
		want DayCount
	}{{"episode", EpisodeDays}, {"", EpisodeDays}, {"Crossing", CrossingDays}} {
		got, err := ParseDayCount(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDayCount(%q): expected %v, got %v (%v)", tt.in, tt.want, got, err)
		}
	}
	if _, err := ParseDayCount("all"); err == nil {
		t.Errorf("Expected error for unknown policy")
	}
}

func TestSummarize_MinDurationBoundary(t *testing.T) {
	for _, minDur := range []int{1, 2, 3, 5} {
		exact := Summarize([]Episode{{Days: seq(0, minDur)}}, minDur)
		if exact.Waves != 1 || exact.WaveDays != minDur {
			t.Errorf("min=%d: run of exactly min days should qualify, got %+v", minDur, exact)
		}

		if minDur > 1 {
			short := Summarize([]Episode{{Days: seq(0, minDur-1)}}, minDur)
			if short.Waves != 0 || short.WaveDays != 0 {
				t.Errorf("min=%d: run of min-1 days should not qualify, got %+v", minDur, short)
			}
		}
	}
}

func TestSummarize_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		values := make([]float64, 200)
		for i := range values {
			values[i] = 20 + rng.Float64()*15
		}
		eps := Detect(values, fixed(len(values), 27), Heat)

		prev := Summarize(eps, 1)
		for minDur := 2; minDur <= 10; minDur++ {
			cur := Summarize(eps, minDur)
			if cur.Waves > prev.Waves || cur.WaveDays > prev.WaveDays {
				t.Fatalf("Trial %d: raising min duration to %d increased counts (%+v -> %+v)", trial, minDur, prev, cur)
			}
			if cur.MaxDuration != prev.MaxDuration || cur.EpisodeDays != prev.EpisodeDays {
				t.Fatalf("Trial %d: min duration must not affect max duration or total days", trial)
			}
			prev = cur
		}
	}
}

func TestSummarize_IgnoresEmptyEpisodes(t *testing.T) {
	s := Summarize([]Episode{{}, {Days: []int{4, 5, 6}}, {}}, DefaultMinDuration)
	want := Summary{EpisodeDays: 3, CrossingDays: 3, Waves: 1, MaxDuration: 3, WaveDays: 3}
	if s != want {
		t.Errorf("Expected %+v, got %+v", want, s)
	}

	if got := Summarize([]Episode{{}}, DefaultMinDuration); got != (Summary{}) {
		t.Errorf("A lone empty episode should summarise to zero, got %+v", got)
	}
}

func seq(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
