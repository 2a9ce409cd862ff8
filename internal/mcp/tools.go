package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DetectInput are the arguments of detect_episodes.
type DetectInput struct {
	Values      []float64 `json:"values" jsonschema:"Daily temperatures in chronological order"`
	Thresholds  []float64 `json:"thresholds,omitempty" jsonschema:"Optional per-day thresholds, one per value"`
	Threshold   *float64  `json:"threshold,omitempty" jsonschema:"Fixed threshold. Defaults to the configured value for the mode"`
	Mode        string    `json:"mode,omitempty" jsonschema:"heat (value >= threshold) or cold (value <= threshold)"`
	MinDuration int       `json:"min_duration,omitempty" jsonschema:"Minimum episode length that counts as a wave"`
	Chart       bool      `json:"chart,omitempty" jsonschema:"Append a Mermaid chart of the series against its thresholds"`
}

// AnalyzeInput are the arguments of analyze_dataset.
type AnalyzeInput struct {
	Path           string   `json:"path" jsonschema:"CSV or XLSX file with year, month, day columns followed by one column per station"`
	Sheet          string   `json:"sheet,omitempty" jsonschema:"Worksheet to read. Defaults to the first sheet"`
	Mode           string   `json:"mode,omitempty" jsonschema:"heat or cold"`
	Threshold      *float64 `json:"threshold,omitempty" jsonschema:"Fixed threshold. Ignored when a threshold table is given"`
	ThresholdPath  string   `json:"threshold_path,omitempty" jsonschema:"File holding a per-day threshold table"`
	ThresholdSheet string   `json:"threshold_sheet,omitempty" jsonschema:"Worksheet holding the per-day threshold table"`
	MinDuration    int      `json:"min_duration,omitempty" jsonschema:"Minimum episode length that counts as a wave"`
	DayCount       string   `json:"day_count,omitempty" jsonschema:"episode (sum of episode lengths) or crossing (individual crossing days)"`
	Output         string   `json:"output,omitempty" jsonschema:"Optional path of an XLSX or CSV file to write the four tables to"`
	Save           bool     `json:"save,omitempty" jsonschema:"Record the run in the local database"`
	ChartStation   string   `json:"chart_station,omitempty" jsonschema:"Append a Mermaid chart of N_waves per year for this station"`
}

// RunsInput are the arguments of list_runs.
type RunsInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of runs to list"`
	RunID string `json:"run_id,omitempty" jsonschema:"Return the stored station-year statistics of this run instead of the list"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.srv, &sdk.Tool{
		Name: "detect_episodes",
		Description: "Detect heatwave or coldwave episodes in one daily temperature series. " +
			"Days at or beyond the threshold are grouped into episodes; a single non-crossing day between two crossing days is bridged. " +
			"Returns each episode with its bridged days and the per-series summary (days, waves, max duration, wave days).",
	}, s.handleDetect)

	sdk.AddTool(s.srv, &sdk.Tool{
		Name: "analyze_dataset",
		Description: "Compute per-year, per-station episode statistics for a daily temperature table. " +
			"Returns the four tables N_days, N_waves, Max_duration and N_days_hwaves. " +
			"Cells of stations without a threshold column are null (not computed).",
	}, s.handleAnalyze)

	sdk.AddTool(s.srv, &sdk.Tool{
		Name:        "list_runs",
		Description: "List analysis runs saved in the local database, newest first, or fetch the statistics of one run.",
	}, s.handleListRuns)
}
