package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tempwave/internal/dataset"
	"tempwave/internal/wave"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	mode TEXT NOT NULL,
	threshold TEXT NOT NULL,
	min_duration INTEGER NOT NULL,
	day_count TEXT NOT NULL,
	input TEXT NOT NULL DEFAULT '',
	years INTEGER NOT NULL,
	stations INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS station_year_stats (
	run_id TEXT NOT NULL,
	year TEXT NOT NULL,
	station TEXT NOT NULL,
	n_days INTEGER,
	n_waves INTEGER,
	max_duration INTEGER,
	n_days_waves INTEGER,
	PRIMARY KEY (run_id, year, station),
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Store persists analysis runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Run describes one stored analysis.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Mode        string    `json:"mode"`
	Threshold   string    `json:"threshold"`
	MinDuration int       `json:"min_duration"`
	DayCount    string    `json:"day_count"`
	Input       string    `json:"input"`
	Years       int       `json:"years"`
	Stations    int       `json:"stations"`
}

// StationYear is one stored cell of the four result tables. Cells that were
// not computed are stored as NULL.
type StationYear struct {
	Year        string       `json:"year"`
	Station     string       `json:"station"`
	Days        dataset.Cell `json:"n_days"`
	Waves       dataset.Cell `json:"n_waves"`
	MaxDuration dataset.Cell `json:"max_duration"`
	WaveDays    dataset.Cell `json:"n_days_waves"`
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records a run and every cell of its result. The ID is assigned
// here; CreatedAt defaults to now.
func (s *Store) SaveRun(ctx context.Context, run Run, res *wave.Result) (_ Run, err error) {
	if s == nil || s.db == nil {
		return Run{}, fmt.Errorf("storage: missing database connection")
	}

	run.ID = uuid.NewString()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Years = len(res.Years)
	run.Stations = len(res.Stations)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, mode, threshold, min_duration, day_count, input, years, stations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Unix(), run.Mode, run.Threshold, run.MinDuration, run.DayCount, run.Input, run.Years, run.Stations,
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO station_year_stats (run_id, year, station, n_days, n_waves, max_duration, n_days_waves)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	for yi, year := range res.Years {
		for si, station := range res.Stations {
			_, err = stmt.ExecContext(ctx,
				run.ID, year, station,
				nullInt(res.Days.At(yi, si)),
				nullInt(res.Waves.At(yi, si)),
				nullInt(res.MaxDuration.At(yi, si)),
				nullInt(res.WaveDays.At(yi, si)),
			)
			if err != nil {
				return Run{}, fmt.Errorf("storage: insert %s/%s: %w", year, station, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, mode, threshold, min_duration, day_count, input, years, stations
		FROM runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Mode, &r.Threshold, &r.MinDuration, &r.DayCount, &r.Input, &r.Years, &r.Stations); err != nil {
			return nil, fmt.Errorf("storage: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StationYears returns the stored cells of a run ordered by year and station.
func (s *Store) StationYears(ctx context.Context, runID string) ([]StationYear, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year, station, n_days, n_waves, max_duration, n_days_waves
		FROM station_year_stats
		WHERE run_id = ?
		ORDER BY year, station`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage: query stats: %w", err)
	}
	defer rows.Close()

	var out []StationYear
	for rows.Next() {
		var sy StationYear
		var days, waves, maxDur, waveDays sql.NullInt64
		if err := rows.Scan(&sy.Year, &sy.Station, &days, &waves, &maxDur, &waveDays); err != nil {
			return nil, fmt.Errorf("storage: scan stats: %w", err)
		}
		sy.Days = cellFrom(days)
		sy.Waves = cellFrom(waves)
		sy.MaxDuration = cellFrom(maxDur)
		sy.WaveDays = cellFrom(waveDays)
		out = append(out, sy)
	}
	return out, rows.Err()
}

func nullInt(c dataset.Cell) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(c.Value), Valid: c.Valid}
}

func cellFrom(n sql.NullInt64) dataset.Cell {
	if !n.Valid {
		return dataset.Cell{}
	}
	return dataset.Computed(int(n.Int64))
}
