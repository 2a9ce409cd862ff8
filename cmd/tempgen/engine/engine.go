package engine

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"tempwave/internal/dataset"
	"tempwave/internal/wave"
)

// Sheet names used for generated workbooks.
const (
	TemperatureSheet = "Algandmed"
	ThresholdSheet   = "Kvantiilid"
)

// SeasonDays is the length of the per-day threshold table for coldwave
// seasons: Oct 1 to Mar 31 including Feb 29.
const SeasonDays = 183

type GeneratorConfig struct {
	Direction wave.Direction
	Scenario  string // "mild" or "extreme"
	Stations  []string
	StartYear int
	Years     int
	Seed      int64
}

// Dataset is a generated temperature table and, for coldwaves, the matching
// per-day threshold table.
type Dataset struct {
	Temperatures *dataset.DailyTable
	Thresholds   *dataset.ThresholdTable
}

// Frames returns the sheets to write, temperatures first.
func (d *Dataset) Frames() []*dataset.Frame {
	frames := []*dataset.Frame{d.Temperatures.Frame(TemperatureSheet)}
	if d.Thresholds != nil {
		frames = append(frames, d.Thresholds.Frame(ThresholdSheet))
	}
	return frames
}

func Generate(cfg GeneratorConfig) (*Dataset, error) {
	if len(cfg.Stations) == 0 {
		return nil, fmt.Errorf("at least one station is required")
	}
	if cfg.Years < 1 {
		return nil, fmt.Errorf("years must be positive, got %d", cfg.Years)
	}
	spells := 1
	switch cfg.Scenario {
	case "mild", "":
	case "extreme":
		spells = 3
	default:
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	// 1. Calendar: heatwaves use calendar years, coldwaves use Oct-Mar seasons.
	var rows []dataset.Row
	var periods [][2]int // [start, end) row range per year label
	for y := cfg.StartYear; y < cfg.StartYear+cfg.Years; y++ {
		start := len(rows)
		if cfg.Direction == wave.Cold {
			rows = appendDays(rows, seasonLabel(y),
				time.Date(y, time.October, 1, 0, 0, 0, 0, time.UTC),
				time.Date(y+1, time.April, 1, 0, 0, 0, 0, time.UTC))
		} else {
			rows = appendDays(rows, strconv.Itoa(y),
				time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
		periods = append(periods, [2]int{start, len(rows)})
	}

	// 2. Seasonal baseline plus noise, then inject spells.
	values := make([][]float64, len(cfg.Stations))
	for si := range cfg.Stations {
		offset := rng.NormFloat64()
		col := make([]float64, len(rows))
		for _, p := range periods {
			n := p[1] - p[0]
			for i := 0; i < n; i++ {
				col[p[0]+i] = baseline(cfg.Direction, i, n) + offset + rng.NormFloat64()*3
			}
			for k := 0; k < spells; k++ {
				injectSpell(rng, cfg.Direction, col[p[0]:p[1]])
			}
		}
		for i := range col {
			col[i] = round1(col[i])
		}
		values[si] = col
	}

	temps, err := dataset.NewDailyTable(cfg.Stations, rows, values)
	if err != nil {
		return nil, err
	}
	out := &Dataset{Temperatures: temps}

	// 3. Coldwaves come with a per-day threshold table.
	if cfg.Direction == wave.Cold {
		th, err := seasonThresholds(rng, cfg.Stations)
		if err != nil {
			return nil, err
		}
		out.Thresholds = th
	}
	return out, nil
}

func seasonLabel(y int) string {
	return fmt.Sprintf("%d/%d", y, y+1)
}

func appendDays(rows []dataset.Row, label string, from, to time.Time) []dataset.Row {
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		rows = append(rows, dataset.Row{
			Year:  label,
			Month: strconv.Itoa(int(d.Month())),
			Day:   strconv.Itoa(d.Day()),
		})
	}
	return rows
}

// baseline is the mean temperature of day i out of n in a period.
func baseline(dir wave.Direction, i, n int) float64 {
	phase := float64(i) / float64(n)
	if dir == wave.Cold {
		// Coldest in mid-season.
		return -3 - 8*math.Sin(math.Pi*phase)
	}
	// Warmest in mid-July.
	return 6 + 12*math.Sin(2*math.Pi*(phase-0.29))
}

// injectSpell overwrites a run of 2-9 days with values well past the
// default threshold, centred on the warmest or coldest part of the period.
func injectSpell(rng *rand.Rand, dir wave.Direction, col []float64) {
	length := 2 + rng.Intn(8)
	center := len(col) / 2
	if dir == wave.Heat {
		center = len(col) * 54 / 100
	}
	start := center - len(col)/5 + rng.Intn(2*len(col)/5)
	if start+length > len(col) {
		start = len(col) - length
	}
	for i := start; i < start+length; i++ {
		if dir == wave.Cold {
			col[i] = wave.DefaultColdThreshold - 1 - rng.Float64()*10
		} else {
			col[i] = wave.DefaultHeatThreshold + 0.5 + rng.Float64()*6
		}
	}
}

func seasonThresholds(rng *rand.Rand, stations []string) (*dataset.ThresholdTable, error) {
	// The 1999/2000 season contains Feb 29, giving all 183 rows.
	rows := appendDays(nil, "",
		time.Date(1999, time.October, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, time.April, 1, 0, 0, 0, 0, time.UTC))

	values := make([][]float64, len(stations))
	for si := range stations {
		shift := rng.Float64() - 0.5
		col := make([]float64, len(rows))
		for i := range col {
			col[i] = round1(wave.DefaultColdThreshold + 3 - 6*math.Sin(math.Pi*float64(i)/float64(len(col))) + shift)
		}
		values[si] = col
	}
	return dataset.NewThresholdTable(stations, rows, values)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
