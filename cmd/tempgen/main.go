package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"tempwave/cmd/tempgen/engine"
	"tempwave/internal/dataset"
	"tempwave/internal/wave"
)

func main() {
	mode := flag.String("mode", "heat", "Episode direction: heat or cold")
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, extreme")
	stations := flag.String("stations", "Tallinn,Tartu,Parnu", "Comma-separated station names")
	startYear := flag.Int("start", 1961, "First year (or first season start year for cold)")
	years := flag.Int("years", 30, "Number of years or seasons to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	out := flag.String("out", "", "Output file, .xlsx or .csv (default ./<Heatwave|Coldwave>_input.xlsx)")
	flag.Parse()

	dir, err := wave.ParseDirection(*mode)
	if err != nil {
		fmt.Printf("Invalid mode: %v\n", err)
		os.Exit(1)
	}

	cfg := engine.GeneratorConfig{
		Direction: dir,
		Scenario:  *scenario,
		Stations:  strings.Split(*stations, ","),
		StartYear: *startYear,
		Years:     *years,
		Seed:      *seed,
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("%s_input.xlsx", dir.Title())
	}

	fmt.Printf("Generating %s scenario '%s' (%d stations, %d years, seed %d) to %s...\n",
		dir, cfg.Scenario, len(cfg.Stations), cfg.Years, cfg.Seed, path)

	ds, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate data: %v\n", err)
		os.Exit(1)
	}

	files, err := dataset.WriteFrames(path, ds.Frames()...)
	if err != nil {
		fmt.Printf("Failed to save data: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Println(f)
	}
	fmt.Println("Done.")
}
