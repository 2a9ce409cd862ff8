package wave

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tempwave/internal/dataset"
)

// buildTable lays out per-year series for each station one after another.
func buildTable(t *testing.T, stations []string, years []string, series map[string][][]float64) *dataset.DailyTable {
	t.Helper()

	var rows []dataset.Row
	values := make([][]float64, len(stations))
	for yi, year := range years {
		n := len(series[stations[0]][yi])
		for d := 0; d < n; d++ {
			rows = append(rows, dataset.Row{Year: year})
		}
		for si, st := range stations {
			values[si] = append(values[si], series[st][yi]...)
		}
	}

	table, err := dataset.NewDailyTable(stations, rows, values)
	if err != nil {
		t.Fatalf("NewDailyTable failed: %v", err)
	}
	return table
}

func cellValues(s *dataset.Sheet) [][]interface{} {
	out := make([][]interface{}, len(s.Cells))
	for i, row := range s.Cells {
		out[i] = make([]interface{}, len(row))
		for j, c := range row {
			if c.Valid {
				out[i][j] = c.Value
			} else {
				out[i][j] = nil
			}
		}
	}
	return out
}

func TestAggregate_FixedThreshold(t *testing.T) {
	table := buildTable(t,
		[]string{"Tallinn", "Tartu"},
		[]string{"2021", "2022"},
		map[string][][]float64{
			"Tallinn": {
				{35, 36, 20, 35, 36, 35},
				{32, 31, 20, 20, 33, 10},
			},
			"Tartu": {
				{32, 31, 29, 33, 34, 10},
				{10, 10, 10, 10, 10, 10},
			},
		})

	opts := DefaultOptions(Heat)
	res, err := Aggregate(context.Background(), table, Fixed(30), opts)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if !reflect.DeepEqual(res.Years, []string{"2021", "2022"}) {
		t.Errorf("Unexpected years: %v", res.Years)
	}

	tests := []struct {
		sheet *dataset.Sheet
		want  [][]interface{}
	}{
		{res.Days, [][]interface{}{{6, 5}, {3, 0}}},
		{res.Waves, [][]interface{}{{1, 1}, {0, 0}}},
		{res.MaxDuration, [][]interface{}{{6, 5}, {0, 0}}},
		{res.WaveDays, [][]interface{}{{6, 5}, {0, 0}}},
	}
	for _, tt := range tests {
		if got := cellValues(tt.sheet); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.sheet.Name, tt.want, got)
		}
	}

	names := []string{}
	for _, f := range res.Frames() {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"N_days", "N_waves", "Max_duration", "N_days_hwaves"}) {
		t.Errorf("Unexpected sheet order: %v", names)
	}
}

func TestAggregate_CrossingDayPolicy(t *testing.T) {
	table := buildTable(t, []string{"Tartu"}, []string{"2021"}, map[string][][]float64{
		"Tartu": {{32, 31, 29, 33, 34}},
	})

	opts := DefaultOptions(Heat)
	opts.DayCount = CrossingDays
	res, err := Aggregate(context.Background(), table, Fixed(30), opts)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if c := res.Days.At(0, 0); c.Value != 4 {
		t.Errorf("Expected 4 crossing days, got %d", c.Value)
	}
	if c := res.WaveDays.At(0, 0); c.Value != 5 {
		t.Errorf("Wave days always include bridged days, expected 5, got %d", c.Value)
	}
}

func TestAggregate_DailyThresholds(t *testing.T) {
	// Season 2019/2020 has Feb 29, 2020/2021 does not.
	leap := make([]float64, 183)
	plain := make([]float64, 182)
	for i := range leap {
		leap[i] = -10
	}
	for i := range plain {
		plain[i] = -10
	}
	for i := 10; i < 15; i++ {
		leap[i] = -20
		plain[i] = -20
	}

	table := buildTable(t,
		[]string{"Tartu", "Valga"},
		[]string{"2019/2020", "2020/2021"},
		map[string][][]float64{
			"Tartu": {leap, plain},
			"Valga": {leap, plain},
		})

	col := make([]float64, 183)
	for i := range col {
		col[i] = -15
	}
	th, err := dataset.NewThresholdTable([]string{"Tartu"}, make([]dataset.Row, 183), [][]float64{col})
	if err != nil {
		t.Fatalf("NewThresholdTable failed: %v", err)
	}

	res, err := Aggregate(context.Background(), table, Daily(th), DefaultOptions(Cold))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	for yi := range res.Years {
		if c := res.Waves.At(yi, 0); !c.Valid || c.Value != 1 {
			t.Errorf("Year %s: expected one coldwave for Tartu, got %+v", res.Years[yi], c)
		}
		if c := res.MaxDuration.At(yi, 0); c.Value != 5 {
			t.Errorf("Year %s: expected max duration 5, got %d", res.Years[yi], c.Value)
		}
		for _, s := range res.Sheets() {
			if c := s.At(yi, 1); c.Valid {
				t.Errorf("%s: Valga has no thresholds and must stay not computed, got %+v", s.Name, c)
			}
		}
	}
}

func TestAggregate_SkipsMalformedYears(t *testing.T) {
	table := buildTable(t, []string{"Tartu"}, []string{"2021", "Kokku", "2022"}, map[string][][]float64{
		"Tartu": {{30, 30, 30}, {30, 30, 30}, {1, 1, 1}},
	})

	res, err := Aggregate(context.Background(), table, Fixed(27), DefaultOptions(Heat))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if !reflect.DeepEqual(res.Years, []string{"2021", "2022"}) {
		t.Errorf("Expected malformed label to be skipped, got %v", res.Years)
	}
	if c := res.Waves.At(1, 0); !c.Valid || c.Value != 0 {
		t.Errorf("A year without episodes is computed as 0, got %+v", c)
	}
}

func TestAggregate_AlignmentErrorAborts(t *testing.T) {
	table := buildTable(t, []string{"Tartu"}, []string{"2021"}, map[string][][]float64{
		"Tartu": {{1, 2, 3, 4, 5}},
	})
	th, err := dataset.NewThresholdTable([]string{"Tartu"}, make([]dataset.Row, 3), [][]float64{{0, 0, 0}})
	if err != nil {
		t.Fatalf("NewThresholdTable failed: %v", err)
	}

	_, err = Aggregate(context.Background(), table, Daily(th), DefaultOptions(Heat))
	var ae *ThresholdAlignmentError
	if !errors.As(err, &ae) {
		t.Fatalf("Expected ThresholdAlignmentError, got %v", err)
	}
	if ae.Year != "2021" || ae.Station != "Tartu" {
		t.Errorf("Expected error to name year and station, got %+v", ae)
	}
}

func TestAggregate_InvalidOptions(t *testing.T) {
	table := buildTable(t, []string{"Tartu"}, []string{"2021"}, map[string][][]float64{"Tartu": {{1}}})

	opts := DefaultOptions(Heat)
	opts.MinDuration = 0
	if _, err := Aggregate(context.Background(), table, Fixed(27), opts); err == nil {
		t.Errorf("Expected error for zero minimum duration")
	}
}

func TestAggregate_Cancelled(t *testing.T) {
	table := buildTable(t, []string{"Tartu"}, []string{"2021"}, map[string][][]float64{"Tartu": {{1}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Aggregate(ctx, table, Fixed(27), DefaultOptions(Heat)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAggregate_WorkerCountDoesNotChangeResult(t *testing.T) {
	stations := []string{"A", "B", "C", "D"}
	years := []string{"2018", "2019", "2020", "2021", "2022"}
	series := make(map[string][][]float64)
	for si, st := range stations {
		for yi := range years {
			vals := make([]float64, 60)
			for d := range vals {
				vals[d] = float64((d*7 + si*3 + yi*5) % 40)
			}
			series[st] = append(series[st], vals)
		}
	}
	table := buildTable(t, stations, years, series)

	var base *Result
	for _, workers := range []int{1, 2, 8} {
		opts := DefaultOptions(Heat)
		opts.Workers = workers
		res, err := Aggregate(context.Background(), table, Fixed(30), opts)
		if err != nil {
			t.Fatalf("Aggregate failed with %d workers: %v", workers, err)
		}
		if base == nil {
			base = res
			continue
		}
		if !reflect.DeepEqual(base, res) {
			t.Errorf("Result with %d workers differs from single-worker result", workers)
		}
	}
}
