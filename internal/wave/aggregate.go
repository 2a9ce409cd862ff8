package wave

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"tempwave/internal/dataset"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result sheet names.
const (
	SheetDays        = "N_days"
	SheetWaves       = "N_waves"
	SheetMaxDuration = "Max_duration"
	SheetWaveDays    = "N_days_hwaves"
)

// Options configures an aggregation run.
type Options struct {
	Direction    Direction
	MinDuration  int
	DayCount     DayCount
	LeapDayIndex int
	// Workers bounds the number of station-years evaluated at once.
	// Zero or less means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard configuration for a direction.
func DefaultOptions(dir Direction) Options {
	return Options{
		Direction:    dir,
		MinDuration:  DefaultMinDuration,
		DayCount:     EpisodeDays,
		LeapDayIndex: DefaultLeapDayIndex,
	}
}

// Result holds the four years x stations tables of one run. Cells of
// station-years that were not evaluated stay not computed.
type Result struct {
	Years    []string `json:"years"`
	Stations []string `json:"stations"`

	Days        *dataset.Sheet `json:"n_days"`
	Waves       *dataset.Sheet `json:"n_waves"`
	MaxDuration *dataset.Sheet `json:"max_duration"`
	WaveDays    *dataset.Sheet `json:"n_days_waves"`
}

func newResult(years, stations []string) *Result {
	return &Result{
		Years:       years,
		Stations:    stations,
		Days:        dataset.NewSheet(SheetDays, years, stations),
		Waves:       dataset.NewSheet(SheetWaves, years, stations),
		MaxDuration: dataset.NewSheet(SheetMaxDuration, years, stations),
		WaveDays:    dataset.NewSheet(SheetWaveDays, years, stations),
	}
}

// Sheets returns the four tables in output order.
func (r *Result) Sheets() []*dataset.Sheet {
	return []*dataset.Sheet{r.Days, r.Waves, r.MaxDuration, r.WaveDays}
}

// Frames returns the four tables ready for dataset.WriteFrames.
func (r *Result) Frames() []*dataset.Frame {
	sheets := r.Sheets()
	frames := make([]*dataset.Frame, len(sheets))
	for i, s := range sheets {
		frames[i] = s.Frame()
	}
	return frames
}

func (r *Result) set(year, station int, s Summary, opts Options) {
	r.Days.Set(year, station, s.TotalDays(opts.DayCount))
	r.Waves.Set(year, station, s.Waves)
	r.MaxDuration.Set(year, station, s.ReportedMaxDuration(opts.MinDuration))
	r.WaveDays.Set(year, station, s.WaveDays)
}

// Evaluate detects and summarises the episodes of one station-year series.
func Evaluate(values []float64, station string, spec ThresholdSpec, opts Options) (Summary, error) {
	thresholds, err := spec.Resolve(station, len(values), opts.LeapDayIndex)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(Detect(values, thresholds, opts.Direction), opts.MinDuration), nil
}

// Aggregate evaluates every (year, station) pair of the table. Malformed year
// labels are left out of the result; stations missing from a per-day
// threshold table keep not-computed cells. The first threshold alignment
// failure aborts the run.
func Aggregate(ctx context.Context, table *dataset.DailyTable, spec ThresholdSpec, opts Options) (*Result, error) {
	if opts.MinDuration < 1 {
		return nil, fmt.Errorf("minimum duration must be at least 1, got %d", opts.MinDuration)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// 1. Filter year labels
	var years []string
	for _, y := range table.Years() {
		if err := CheckYearLabel(y); err != nil {
			log.Debug().Err(err).Msg("Skipping year")
			continue
		}
		years = append(years, y)
	}

	res := newResult(years, table.Stations)

	// 2. Evaluate each station-year independently; every job owns one cell
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	defined := make([]bool, len(table.Stations))
	for si, station := range table.Stations {
		defined[si] = spec.Defines(station)
		if !defined[si] {
			log.Debug().Str("station", station).Msg("No thresholds for station, not computed")
		}
	}

	for yi, year := range years {
		rows := table.RowsFor(year)
		for si, station := range table.Stations {
			if !defined[si] {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				summary, err := Evaluate(table.Series(si, rows), station, spec, opts)
				var ae *ThresholdAlignmentError
				if errors.As(err, &ae) {
					ae.Year = year
					return ae
				}
				if err != nil {
					return fmt.Errorf("station %q year %s: %w", station, year, err)
				}

				res.set(yi, si, summary, opts)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("mode", opts.Direction.String()).
		Str("threshold", spec.Label()).
		Int("years", len(years)).
		Int("stations", len(table.Stations)).
		Msg("Aggregation complete")

	return res, nil
}
