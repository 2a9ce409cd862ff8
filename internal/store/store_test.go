package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tempwave/internal/dataset"
	"tempwave/internal/wave"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "tempwave.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(t *testing.T) *wave.Result {
	t.Helper()

	rows := []dataset.Row{{Year: "2021"}, {Year: "2021"}, {Year: "2021"}}
	table, err := dataset.NewDailyTable([]string{"Tartu", "Valga"}, rows, [][]float64{
		{30, 31, 32},
		{10, 10, 10},
	})
	if err != nil {
		t.Fatalf("NewDailyTable failed: %v", err)
	}
	th, err := dataset.NewThresholdTable([]string{"Tartu"}, rows, [][]float64{{27, 27, 27}})
	if err != nil {
		t.Fatalf("NewThresholdTable failed: %v", err)
	}

	res, err := wave.Aggregate(context.Background(), table, wave.Daily(th), wave.DefaultOptions(wave.Heat))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	return res
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := sampleResult(t)

	run, err := s.SaveRun(ctx, Run{
		Mode:        "heat",
		Threshold:   "th_QUANTIL",
		MinDuration: 3,
		DayCount:    "episode",
		Input:       "Kuumalained.xlsx",
	}, res)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatalf("Expected run ID to be assigned")
	}
	if run.Years != 1 || run.Stations != 2 {
		t.Errorf("Unexpected run dimensions: %+v", run)
	}

	cells, err := s.StationYears(ctx, run.ID)
	if err != nil {
		t.Fatalf("StationYears failed: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("Expected 2 stored cells, got %d", len(cells))
	}

	tartu, valga := cells[0], cells[1]
	if tartu.Station != "Tartu" || tartu.Waves != dataset.Computed(1) || tartu.MaxDuration != dataset.Computed(3) {
		t.Errorf("Unexpected Tartu row: %+v", tartu)
	}
	if valga.Station != "Valga" || valga.Days.Valid || valga.Waves.Valid {
		t.Errorf("Valga was not computed and must be stored as NULL: %+v", valga)
	}
}

func TestRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := sampleResult(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, mode := range []string{"heat", "cold", "heat"} {
		_, err := s.SaveRun(ctx, Run{
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			Mode:        mode,
			Threshold:   "th_27",
			MinDuration: 3,
			DayCount:    "episode",
		}, res)
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected limit of 2 runs, got %d", len(runs))
	}
	if !runs[0].CreatedAt.Equal(base.Add(2*time.Hour)) || runs[1].Mode != "cold" {
		t.Errorf("Expected newest first, got %+v", runs)
	}
}

func TestSaveRun_NilStore(t *testing.T) {
	var s *Store
	if _, err := s.SaveRun(context.Background(), Run{}, &wave.Result{}); err == nil {
		t.Errorf("Expected error for nil store")
	}
}
