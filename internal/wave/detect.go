package wave

// Episode is a run of consecutive day indices. Days includes bridged days,
// which individually failed the threshold test but sit in a one-day gap
// between two crossing days.
type Episode struct {
	Days    []int `json:"days"`
	Bridged []int `json:"bridged,omitempty"`
}

// Len is the episode duration in days, bridged days included.
func (e Episode) Len() int {
	return len(e.Days)
}

// Start returns the first day index.
func (e Episode) Start() int {
	return e.Days[0]
}

// End returns the last day index.
func (e Episode) End() int {
	return e.Days[len(e.Days)-1]
}

// CrossingDays is the number of days in the episode that crossed the
// threshold themselves.
func (e Episode) CrossingDays() int {
	return len(e.Days) - len(e.Bridged)
}

// Crossings returns the ascending indices whose value crosses the aligned
// per-day threshold. thresholds must have one entry per value (see Resolve).
func Crossings(values, thresholds []float64, dir Direction) []int {
	var idx []int
	for i, v := range values {
		if dir.Meets(v, thresholds[i]) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Group folds ascending crossing indices into episodes. A gap of exactly one
// non-crossing day is bridged into the running episode; any wider gap closes
// it. Each decision looks only at the current index and the episode's last
// day. An empty input yields no episodes.
func Group(crossings []int) []Episode {
	if len(crossings) == 0 {
		return nil
	}

	var episodes []Episode
	cur := Episode{Days: []int{crossings[0]}}

	for _, day := range crossings[1:] {
		last := cur.Days[len(cur.Days)-1]
		switch day - last {
		case 1:
			cur.Days = append(cur.Days, day)
		case 2:
			cur.Days = append(cur.Days, day-1, day)
			cur.Bridged = append(cur.Bridged, day-1)
		default:
			episodes = append(episodes, cur)
			cur = Episode{Days: []int{day}}
		}
	}

	return append(episodes, cur)
}

// Detect finds the episodes of one station-year series.
func Detect(values, thresholds []float64, dir Direction) []Episode {
	return Group(Crossings(values, thresholds, dir))
}
