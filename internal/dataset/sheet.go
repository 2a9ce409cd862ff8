package dataset

import (
	"encoding/json"
	"strconv"
)

// Cell is one statistic in a result sheet. A zero Cell is "not computed",
// which is distinct from a computed value of 0.
type Cell struct {
	Value int
	Valid bool
}

// Computed returns a valid cell holding v.
func Computed(v int) Cell {
	return Cell{Value: v, Valid: true}
}

// String renders the cell for a sheet; not-computed cells are blank.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.Itoa(c.Value)
}

// MarshalJSON encodes a not-computed cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON decodes null as a not-computed cell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Computed(v)
	return nil
}

// Sheet is a years x stations grid of one statistic.
type Sheet struct {
	Name     string   `json:"name"`
	Years    []string `json:"years"`
	Stations []string `json:"stations"`
	Cells    [][]Cell `json:"cells"` // [year][station]
}

// NewSheet returns a sheet with every cell marked not computed.
func NewSheet(name string, years, stations []string) *Sheet {
	cells := make([][]Cell, len(years))
	for i := range cells {
		cells[i] = make([]Cell, len(stations))
	}
	return &Sheet{Name: name, Years: years, Stations: stations, Cells: cells}
}

// Set stores a computed value. Distinct cells may be set concurrently.
func (s *Sheet) Set(year, station, v int) {
	s.Cells[year][station] = Computed(v)
}

// At returns the cell for the given year and station positions.
func (s *Sheet) At(year, station int) Cell {
	return s.Cells[year][station]
}

// Lookup returns the cell for the given labels.
func (s *Sheet) Lookup(year, station string) (Cell, bool) {
	yi, si := -1, -1
	for i, y := range s.Years {
		if y == year {
			yi = i
			break
		}
	}
	for i, st := range s.Stations {
		if st == station {
			si = i
			break
		}
	}
	if yi < 0 || si < 0 {
		return Cell{}, false
	}
	return s.Cells[yi][si], true
}

// Frame lays the sheet out with years as the index column and one column
// per station.
func (s *Sheet) Frame() *Frame {
	header := make([]string, 0, len(s.Stations)+1)
	header = append(header, "")
	header = append(header, s.Stations...)

	f := &Frame{Name: s.Name, Header: header, Records: make([][]string, 0, len(s.Years))}
	for yi, year := range s.Years {
		rec := make([]string, 0, len(header))
		rec = append(rec, year)
		for _, c := range s.Cells[yi] {
			rec = append(rec, c.String())
		}
		f.Records = append(f.Records, rec)
	}
	return f
}
