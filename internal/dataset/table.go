package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IdentityColumns is the number of leading year/month/day columns in every
// input sheet. Every column after them belongs to a station.
const IdentityColumns = 3

// DefaultIdentity is the header used for generated sheets (year, month, day).
var DefaultIdentity = [IdentityColumns]string{"Aasta", "Kuu", "Paev"}

// Frame is a raw sheet: a header row followed by string records.
type Frame struct {
	Name    string
	Header  []string
	Records [][]string
}

// ParseError reports a cell that is neither blank nor a number.
type ParseError struct {
	Sheet  string
	Row    int // 1-based, header is row 1
	Column string
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %q: non-numeric value %q", e.Sheet, e.Row, e.Column, e.Value)
}

// Row holds the identity columns of one record.
type Row struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// DailyTable holds one value column per station and one row per calendar day.
type DailyTable struct {
	Identity [IdentityColumns]string
	Stations []string
	Rows     []Row
	Values   [][]float64 // [station][row]

	byYear map[string][]int
}

// NewDailyTable builds a table from already-parsed columns.
func NewDailyTable(stations []string, rows []Row, values [][]float64) (*DailyTable, error) {
	if len(values) != len(stations) {
		return nil, fmt.Errorf("got %d value columns for %d stations", len(values), len(stations))
	}
	for i, col := range values {
		if len(col) != len(rows) {
			return nil, fmt.Errorf("station %q has %d values for %d rows", stations[i], len(col), len(rows))
		}
	}
	t := &DailyTable{
		Identity: DefaultIdentity,
		Stations: stations,
		Rows:     rows,
		Values:   values,
	}
	t.index()
	return t, nil
}

func (t *DailyTable) index() {
	t.byYear = make(map[string][]int)
	for i, r := range t.Rows {
		t.byYear[r.Year] = append(t.byYear[r.Year], i)
	}
}

// Years returns the distinct year labels in order of first appearance.
func (t *DailyTable) Years() []string {
	var years []string
	seen := make(map[string]bool)
	for _, r := range t.Rows {
		if !seen[r.Year] {
			seen[r.Year] = true
			years = append(years, r.Year)
		}
	}
	return years
}

// RowsFor returns the row positions labelled with the given year.
func (t *DailyTable) RowsFor(year string) []int {
	if t.byYear == nil {
		t.index()
	}
	return t.byYear[year]
}

// Series returns the values of one station restricted to the given rows,
// re-indexed from zero.
func (t *DailyTable) Series(station int, rows []int) []float64 {
	col := t.Values[station]
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = col[r]
	}
	return out
}

// Frame renders the table back into a writable sheet.
func (t *DailyTable) Frame(name string) *Frame {
	return valuesFrame(name, t.Identity, t.Stations, t.Rows, t.Values)
}

// ThresholdTable holds per-day thresholds per station. Rows are positions in
// the analysis period and are not tied to any particular year.
type ThresholdTable struct {
	Identity [IdentityColumns]string
	Stations []string
	Rows     []Row
	Values   [][]float64 // [station][day]

	column map[string]int
}

// NewThresholdTable builds a threshold table from already-parsed columns.
func NewThresholdTable(stations []string, rows []Row, values [][]float64) (*ThresholdTable, error) {
	if len(values) != len(stations) {
		return nil, fmt.Errorf("got %d threshold columns for %d stations", len(values), len(stations))
	}
	t := &ThresholdTable{
		Identity: DefaultIdentity,
		Stations: stations,
		Rows:     rows,
		Values:   values,
		column:   make(map[string]int, len(stations)),
	}
	for i, s := range stations {
		t.column[s] = i
	}
	return t, nil
}

// Column returns the thresholds for a station and whether the station exists.
func (t *ThresholdTable) Column(station string) ([]float64, bool) {
	i, ok := t.column[station]
	if !ok {
		return nil, false
	}
	return t.Values[i], true
}

// Frame renders the table back into a writable sheet.
func (t *ThresholdTable) Frame(name string) *Frame {
	return valuesFrame(name, t.Identity, t.Stations, t.Rows, t.Values)
}

// ParseDaily converts a raw frame into a DailyTable.
func ParseDaily(f *Frame) (*DailyTable, error) {
	identity, stations, rows, values, err := parseColumns(f)
	if err != nil {
		return nil, err
	}
	t, err := NewDailyTable(stations, rows, values)
	if err != nil {
		return nil, err
	}
	t.Identity = identity
	return t, nil
}

// ParseThresholds converts a raw frame into a ThresholdTable.
func ParseThresholds(f *Frame) (*ThresholdTable, error) {
	identity, stations, rows, values, err := parseColumns(f)
	if err != nil {
		return nil, err
	}
	t, err := NewThresholdTable(stations, rows, values)
	if err != nil {
		return nil, err
	}
	t.Identity = identity
	return t, nil
}

func parseColumns(f *Frame) ([IdentityColumns]string, []string, []Row, [][]float64, error) {
	var identity [IdentityColumns]string
	if len(f.Header) < IdentityColumns {
		return identity, nil, nil, nil, fmt.Errorf("sheet %q: expected at least %d identity columns, got %d", f.Name, IdentityColumns, len(f.Header))
	}
	for i := range identity {
		identity[i] = strings.TrimSpace(f.Header[i])
	}

	stations := make([]string, 0, len(f.Header)-IdentityColumns)
	seen := make(map[string]bool)
	for _, h := range f.Header[IdentityColumns:] {
		name := strings.TrimSpace(h)
		if name == "" {
			return identity, nil, nil, nil, fmt.Errorf("sheet %q: blank station header in column %d", f.Name, len(stations)+IdentityColumns+1)
		}
		if seen[name] {
			return identity, nil, nil, nil, fmt.Errorf("sheet %q: duplicate station column %q", f.Name, name)
		}
		seen[name] = true
		stations = append(stations, name)
	}

	rows := make([]Row, 0, len(f.Records))
	values := make([][]float64, len(stations))
	for i, rec := range f.Records {
		rows = append(rows, Row{
			Year:  field(rec, 0),
			Month: field(rec, 1),
			Day:   field(rec, 2),
		})
		for s := range stations {
			raw := field(rec, IdentityColumns+s)
			v, err := parseValue(raw)
			if err != nil {
				return identity, nil, nil, nil, &ParseError{Sheet: f.Name, Row: i + 2, Column: stations[s], Value: raw}
			}
			values[s] = append(values[s], v)
		}
	}
	return identity, stations, rows, values, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseValue maps a blank cell to NaN, which never satisfies a threshold
// comparison. Only finite decimal numbers are accepted.
func parseValue(raw string) (float64, error) {
	if raw == "" {
		return math.NaN(), nil
	}
	digits := strings.TrimLeft(raw, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("hexadecimal value %q", raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func valuesFrame(name string, identity [IdentityColumns]string, stations []string, rows []Row, values [][]float64) *Frame {
	header := append(identity[:], stations...)
	f := &Frame{Name: name, Header: header, Records: make([][]string, 0, len(rows))}
	for i, r := range rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Year, r.Month, r.Day)
		for s := range stations {
			rec = append(rec, formatValue(values[s][i]))
		}
		f.Records = append(f.Records, rec)
	}
	return f
}
