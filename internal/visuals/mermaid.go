package visuals

import (
	"fmt"
	"math"
	"strings"

	"tempwave/internal/dataset"
	"tempwave/internal/wave"
)

// maxPoints bounds the x-axis of series charts.
const maxPoints = 120

// GenerateStationChart creates a Mermaid bar chart of one statistic per year
// for a station. Years that were not computed are drawn as 0.
func GenerateStationChart(sheet *dataset.Sheet, station string) string {
	if sheet == nil || len(sheet.Years) == 0 {
		return ""
	}
	si := -1
	for i, s := range sheet.Stations {
		if s == station {
			si = i
			break
		}
	}
	if si < 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0
	for yi, year := range sheet.Years {
		c := sheet.At(yi, si)
		labels = append(labels, fmt.Sprintf("\"%s\"", year))
		values = append(values, fmt.Sprintf("%d", c.Value))
		if c.Value > maxVal {
			maxVal = c.Value
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s (%s)\"\n", sheet.Name, station))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", sheet.Name, maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateEpisodeChart creates a Mermaid line chart of a daily series against
// its thresholds with the days inside episodes drawn as bars. Long series are
// truncated to the first maxPoints days. Missing values are drawn at the
// threshold.
func GenerateEpisodeChart(values, thresholds []float64, episodes []wave.Episode) string {
	n := len(values)
	if n == 0 || len(thresholds) != n {
		return ""
	}
	if n > maxPoints {
		n = maxPoints
	}

	inEpisode := make([]bool, n)
	for _, ep := range episodes {
		for _, d := range ep.Days {
			if d < n {
				inEpisode[d] = true
			}
		}
	}

	var labels, temps, ths, bars []string
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		v := values[i]
		if math.IsNaN(v) {
			v = thresholds[i]
		}
		lo = math.Min(lo, math.Min(v, thresholds[i]))
		hi = math.Max(hi, math.Max(v, thresholds[i]))

		labels = append(labels, fmt.Sprintf("%d", i))
		temps = append(temps, fmt.Sprintf("%.1f", v))
		ths = append(ths, fmt.Sprintf("%.1f", thresholds[i]))
	}
	for i := 0; i < n; i++ {
		if inEpisode[i] {
			bars = append(bars, fmt.Sprintf("%.1f", thresholds[i]))
		} else {
			bars = append(bars, fmt.Sprintf("%.1f", math.Floor(lo)))
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Daily Temperature vs Threshold\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Temperature\" %d --> %d\n", int(math.Floor(lo)), int(math.Ceil(hi))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(bars, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(temps, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(ths, ", ")))
	sb.WriteString("```")
	return sb.String()
}
