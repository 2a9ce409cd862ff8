package mcp

import (
	"context"
	"fmt"

	"tempwave/internal/analysis"
	"tempwave/internal/dataset"
	"tempwave/internal/store"
	"tempwave/internal/visuals"
	"tempwave/internal/wave"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type episodeView struct {
	Start   int   `json:"start"`
	End     int   `json:"end"`
	Length  int   `json:"length"`
	Bridged []int `json:"bridged,omitempty"`
	IsWave  bool  `json:"is_wave"`
}

type detectOutput struct {
	Mode        string        `json:"mode"`
	MinDuration int           `json:"min_duration"`
	Episodes    []episodeView `json:"episodes"`
	Summary     wave.Summary  `json:"summary"`
	// MaxDuration as it appears in the Max_duration table.
	ReportedMaxDuration int `json:"reported_max_duration"`
}

func (s *Server) handleDetect(ctx context.Context, _ *sdk.CallToolRequest, in DetectInput) (*sdk.CallToolResult, any, error) {
	dir, err := s.direction(in.Mode)
	if err != nil {
		return nil, nil, err
	}
	minDur := s.minDuration(in.MinDuration)

	thresholds := in.Thresholds
	if len(thresholds) == 0 {
		th := s.threshold(dir, in.Threshold)
		thresholds = make([]float64, len(in.Values))
		for i := range thresholds {
			thresholds[i] = th
		}
	} else if len(thresholds) != len(in.Values) {
		return nil, nil, fmt.Errorf("thresholds has %d entries but values has %d", len(thresholds), len(in.Values))
	}

	episodes := wave.Detect(in.Values, thresholds, dir)
	sum := wave.Summarize(episodes, minDur)

	views := make([]episodeView, 0, len(episodes))
	for _, e := range episodes {
		views = append(views, episodeView{
			Start:   e.Start(),
			End:     e.End(),
			Length:  e.Len(),
			Bridged: e.Bridged,
			IsWave:  e.Len() >= minDur,
		})
	}

	var chart string
	if in.Chart {
		chart = visuals.GenerateEpisodeChart(in.Values, thresholds, episodes)
	}

	res, err := textResult(detectOutput{
		Mode:                dir.String(),
		MinDuration:         minDur,
		Episodes:            views,
		Summary:             sum,
		ReportedMaxDuration: sum.ReportedMaxDuration(minDur),
	}, chart)
	return res, nil, err
}

type analyzeOutput struct {
	Mode      string       `json:"mode"`
	Threshold string       `json:"threshold"`
	DayCount  string       `json:"day_count"`
	Result    *wave.Result `json:"result"`
	Files     []string     `json:"files,omitempty"`
	RunID     string       `json:"run_id,omitempty"`
}

func (s *Server) handleAnalyze(ctx context.Context, _ *sdk.CallToolRequest, in AnalyzeInput) (*sdk.CallToolResult, any, error) {
	if in.Path == "" {
		return nil, nil, fmt.Errorf("path is required")
	}
	dir, err := s.direction(in.Mode)
	if err != nil {
		return nil, nil, err
	}

	opts := s.cfg.Analysis.Options()
	opts.Direction = dir
	opts.MinDuration = s.minDuration(in.MinDuration)
	if in.DayCount != "" {
		if opts.DayCount, err = wave.ParseDayCount(in.DayCount); err != nil {
			return nil, nil, err
		}
	}

	req := analysis.Request{
		InputPath:      s.resolvePath(in.Path),
		Sheet:          in.Sheet,
		ThresholdSheet: in.ThresholdSheet,
		Threshold:      s.threshold(dir, in.Threshold),
		Options:        opts,
	}
	if in.ThresholdPath != "" {
		req.ThresholdPath = s.resolvePath(in.ThresholdPath)
	}

	outcome, err := analysis.Run(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	out := analyzeOutput{
		Mode:      dir.String(),
		Threshold: outcome.Spec.Label(),
		DayCount:  opts.DayCount.String(),
		Result:    outcome.Result,
	}

	var chart string
	if in.ChartStation != "" {
		chart = visuals.GenerateStationChart(outcome.Result.Waves, in.ChartStation)
		if chart == "" {
			return nil, nil, fmt.Errorf("%w: %q", wave.ErrUnknownStation, in.ChartStation)
		}
	}

	if in.Output != "" {
		files, err := dataset.WriteFrames(s.resolvePath(in.Output), outcome.Result.Frames()...)
		if err != nil {
			return nil, nil, err
		}
		out.Files = files
	}

	if in.Save {
		if s.store == nil {
			return nil, nil, fmt.Errorf("run storage is not configured")
		}
		run, err := s.store.SaveRun(ctx, store.Run{
			Mode:        dir.String(),
			Threshold:   outcome.Spec.Label(),
			MinDuration: opts.MinDuration,
			DayCount:    opts.DayCount.String(),
			Input:       req.InputPath,
		}, outcome.Result)
		if err != nil {
			return nil, nil, err
		}
		out.RunID = run.ID
		log.Info().Str("run", run.ID).Msg("Analysis run saved")
	}

	res, err := textResult(out, chart)
	return res, nil, err
}

func (s *Server) handleListRuns(ctx context.Context, _ *sdk.CallToolRequest, in RunsInput) (*sdk.CallToolResult, any, error) {
	if s.store == nil {
		return nil, nil, fmt.Errorf("run storage is not configured")
	}

	if in.RunID != "" {
		cells, err := s.store.StationYears(ctx, in.RunID)
		if err != nil {
			return nil, nil, err
		}
		if len(cells) == 0 {
			return nil, nil, fmt.Errorf("no stored statistics for run %s", in.RunID)
		}
		res, err := textResult(cells)
		return res, nil, err
	}

	runs, err := s.store.Runs(ctx, in.Limit)
	if err != nil {
		return nil, nil, err
	}
	res, err := textResult(runs)
	return res, nil, err
}
