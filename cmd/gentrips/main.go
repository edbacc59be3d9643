// Command gentrips generates a synthetic trip dataset and writes it to CSV
// files for model training. It uses the same generation and scoring packages
// as the feed service, so offline datasets match what the service publishes.
//
// Usage:
//
//	go run ./cmd/gentrips -trips 1000 -out-dir data/mock -seed 42 -workers 4
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/roadrank/tripsim/internal/dataset"
	"github.com/roadrank/tripsim/internal/export"
	"github.com/roadrank/tripsim/internal/score"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	trips := flag.Int("trips", 1000, "number of trips to generate")
	outDir := flag.String("out-dir", "data/mock", "output directory for CSV files")
	seed := flag.Uint64("seed", 0, "random seed; 0 picks one from the clock")
	workers := flag.Int("workers", 1, "parallel trial workers")
	durationMinutes := flag.Int("duration-minutes", 0, "fixed trip duration; 0 samples 5-60 minutes per trip")
	flag.Parse()

	if *trips <= 0 {
		flag.Usage()
		return fmt.Errorf("-trips must be positive")
	}
	if *durationMinutes < 0 {
		flag.Usage()
		return fmt.Errorf("-duration-minutes must not be negative")
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	log.Printf("generating %d trips (seed=%d, workers=%d)", *trips, *seed, *workers)

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	gen := dataset.New(nil, *workers)
	if *durationMinutes > 0 {
		gen.WithFixedDuration(*durationMinutes * 60)
	}

	ds, trialErrs := gen.Generate(rng, *trips)
	for _, te := range trialErrs {
		log.Printf("warning: %v", te)
	}

	summaryPath, telemetryPath, err := export.WriteFiles(*outDir, ds.Trips, ds.Summaries)
	if err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote summaries: %s", summaryPath)
	log.Printf("wrote telemetry: %s", telemetryPath)

	printStats(ds)
	return nil
}

func printStats(ds *dataset.Dataset) {
	stats := ds.ComputeStats()

	fmt.Println("\n=== Dataset stats ===")
	fmt.Printf("Trips: %d\n", stats.Trips)
	fmt.Printf("Score: mean=%.2f min=%.2f max=%.2f stddev=%.2f\n",
		stats.ScoreMean, stats.ScoreMin, stats.ScoreMax, stats.ScoreStdDev)
	fmt.Printf("Categories: safe=%d, moderate=%d, risky=%d\n",
		stats.Categories[score.CategorySafe],
		stats.Categories[score.CategoryModerate],
		stats.Categories[score.CategoryRisky])

	printBreakdown("Drivers", stats.Drivers)
	printBreakdown("Roads", stats.Roads)
	printBreakdown("Times of day", stats.Periods)
	printBreakdown("Weather", stats.Weathers)
}

func printBreakdown(label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s: ", label)
	for _, k := range keys {
		fmt.Printf("%s=%d ", k, counts[k])
	}
	fmt.Println()
}
