package commands

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"tempwave/internal/analysis"
	"tempwave/internal/dataset"
	"tempwave/internal/store"
	"tempwave/internal/wave"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	sheet          string
	comma          string
	mode           string
	threshold      float64
	thresholdFile  string
	thresholdSheet string
	minDuration    int
	dayCount       string
	leapDayIndex   int
	workers        int
	out            string
	save           bool
	open           bool
}

func newAnalyzeCmd() *cobra.Command {
	f := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Compute per-year episode statistics for every station",
		Long: `Reads a CSV or XLSX table with year, month and day columns followed by one daily
temperature column per station and writes the four result tables
(N_days, N_waves, Max_duration, N_days_hwaves) as sheets of one workbook.

Thresholds are either a fixed value (--threshold) or a per-day table with one
column per station (--threshold-file and/or --threshold-sheet).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.sheet, "sheet", "", "worksheet holding the daily temperatures (default: first sheet)")
	fl.StringVar(&f.comma, "comma", "", "CSV field separator (default ',')")
	fl.StringVarP(&f.mode, "mode", "m", "", "heat or cold (default from TEMPWAVE_MODE)")
	fl.Float64VarP(&f.threshold, "threshold", "t", 0, "fixed threshold (default 27 for heat, -15 for cold)")
	fl.StringVar(&f.thresholdFile, "threshold-file", "", "file holding a per-day threshold table")
	fl.StringVar(&f.thresholdSheet, "threshold-sheet", "", "worksheet holding the per-day threshold table")
	fl.IntVar(&f.minDuration, "min-duration", 0, "minimum episode length counted as a wave")
	fl.StringVar(&f.dayCount, "day-count", "", "episode (sum of episode lengths) or crossing (crossing days only)")
	fl.IntVar(&f.leapDayIndex, "leap-day-index", 0, "row of the threshold table dropped for years without Feb 29")
	fl.IntVar(&f.workers, "workers", 0, "station-years evaluated in parallel (default GOMAXPROCS)")
	fl.StringVarP(&f.out, "out", "o", "", "output workbook (default <Heatwave|Coldwave>_stats_th_<threshold>.xlsx)")
	fl.BoolVar(&f.save, "save", false, "record the run in the local database")
	fl.BoolVar(&f.open, "open", false, "open the result workbook when done")
	return cmd
}

func runAnalyze(cmd *cobra.Command, f *analyzeFlags, input string) error {
	a := cfg.Analysis
	if f.mode != "" {
		dir, err := wave.ParseDirection(f.mode)
		if err != nil {
			return err
		}
		a.Direction = dir
	}

	opts := a.Options()
	fl := cmd.Flags()
	if fl.Changed("min-duration") {
		opts.MinDuration = f.minDuration
	}
	if fl.Changed("leap-day-index") {
		opts.LeapDayIndex = f.leapDayIndex
	}
	if fl.Changed("workers") {
		opts.Workers = f.workers
	}
	if f.dayCount != "" {
		p, err := wave.ParseDayCount(f.dayCount)
		if err != nil {
			return err
		}
		opts.DayCount = p
	}

	threshold := a.Threshold()
	if fl.Changed("threshold") {
		threshold = f.threshold
	}

	req := analysis.Request{
		InputPath:      input,
		Sheet:          f.sheet,
		ThresholdPath:  f.thresholdFile,
		ThresholdSheet: f.thresholdSheet,
		Threshold:      threshold,
		Options:        opts,
	}
	if f.comma != "" {
		if utf8.RuneCountInString(f.comma) != 1 {
			return fmt.Errorf("--comma must be a single character, got %q", f.comma)
		}
		req.Comma, _ = utf8.DecodeRuneInString(f.comma)
	}

	outcome, err := analysis.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	outPath := f.out
	if outPath == "" {
		outPath = analysis.DefaultOutputPath(".", opts.Direction, outcome.Spec)
	}
	files, err := dataset.WriteFrames(outPath, outcome.Result.Frames()...)
	if err != nil {
		return err
	}

	log.Info().
		Str("mode", opts.Direction.String()).
		Str("threshold", outcome.Spec.Label()).
		Int("years", len(outcome.Result.Years)).
		Int("stations", outcome.Stations).
		Dur("elapsed", outcome.Elapsed).
		Strs("files", files).
		Msg("Analysis written")

	out := cmd.OutOrStdout()
	for _, file := range files {
		fmt.Fprintln(out, file)
	}

	if f.save {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		abs, _ := filepath.Abs(input)
		run, err := st.SaveRun(cmd.Context(), store.Run{
			Mode:        opts.Direction.String(),
			Threshold:   outcome.Spec.Label(),
			MinDuration: opts.MinDuration,
			DayCount:    opts.DayCount.String(),
			Input:       abs,
		}, outcome.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run %s\n", run.ID)
	}

	if f.open && len(files) > 0 {
		if err := browser.OpenFile(files[0]); err != nil {
			log.Warn().Err(err).Str("file", files[0]).Msg("Failed to open result")
		}
	}
	return nil
}
