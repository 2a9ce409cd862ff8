// Package analysis loads daily temperature tables and threshold sheets and
// runs the episode aggregation over them.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"tempwave/internal/dataset"
	"tempwave/internal/wave"

	"github.com/rs/zerolog/log"
)

// Request describes one analysis run.
type Request struct {
	InputPath string
	Sheet     string
	Comma     rune

	// ThresholdPath and ThresholdSheet select a per-day threshold table. A
	// sheet without a path is read from InputPath. When neither is set the
	// fixed Threshold is used.
	ThresholdPath  string
	ThresholdSheet string
	Threshold      float64

	Options wave.Options
}

// UsesDailyThresholds reports whether the request reads a threshold table.
func (r Request) UsesDailyThresholds() bool {
	return r.ThresholdPath != "" || r.ThresholdSheet != ""
}

// Outcome is the result of a run together with what it was computed from.
type Outcome struct {
	Result   *wave.Result
	Spec     wave.ThresholdSpec
	Stations int
	Rows     int
	Elapsed  time.Duration
}

// Run reads the input, resolves the threshold spec and aggregates.
func Run(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()

	table, err := LoadDaily(req)
	if err != nil {
		return nil, err
	}

	spec, err := LoadSpec(req)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("input", req.InputPath).
		Int("stations", len(table.Stations)).
		Int("rows", len(table.Rows)).
		Str("threshold", spec.Label()).
		Msg("Starting analysis")

	res, err := wave.Aggregate(ctx, table, spec, req.Options)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:   res,
		Spec:     spec,
		Stations: len(table.Stations),
		Rows:     len(table.Rows),
		Elapsed:  time.Since(start),
	}, nil
}

// LoadDaily reads and parses the daily temperature table.
func LoadDaily(req Request) (*dataset.DailyTable, error) {
	frame, err := dataset.ReadFrame(req.InputPath, dataset.ReadOptions{Sheet: req.Sheet, Comma: req.Comma})
	if err != nil {
		return nil, err
	}
	table, err := dataset.ParseDaily(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to parse temperatures: %w", err)
	}
	return table, nil
}

// LoadSpec returns the fixed threshold or reads the per-day threshold table.
func LoadSpec(req Request) (wave.ThresholdSpec, error) {
	if !req.UsesDailyThresholds() {
		return wave.Fixed(req.Threshold), nil
	}

	path := req.ThresholdPath
	if path == "" {
		path = req.InputPath
	}

	frame, err := dataset.ReadFrame(path, dataset.ReadOptions{Sheet: req.ThresholdSheet, Comma: req.Comma})
	if err != nil {
		return wave.ThresholdSpec{}, err
	}
	table, err := dataset.ParseThresholds(frame)
	if err != nil {
		return wave.ThresholdSpec{}, fmt.Errorf("failed to parse thresholds: %w", err)
	}
	return wave.Daily(table), nil
}

// DefaultOutputPath names the result workbook after the direction and
// threshold, e.g. Coldwave_stats_th_-15.xlsx or Heatwave_stats_th_QUANTIL.xlsx.
func DefaultOutputPath(dir string, dirn wave.Direction, spec wave.ThresholdSpec) string {
	return filepath.Join(dir, fmt.Sprintf("%s_stats_%s.xlsx", dirn.Title(), spec.Label()))
}
