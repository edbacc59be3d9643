// Package dataset runs repeated independent trip trials: each trial samples a
// scenario uniformly from the catalogs, generates a trip, and scores it. The
// accumulated dataset preserves trial order, and failed trials are isolated
// rather than aborting the batch.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/roadrank/tripsim/internal/catalog"
	"github.com/roadrank/tripsim/internal/score"
	"github.com/roadrank/tripsim/internal/sim"
)

// Dataset is the ordered collection of everything one run produced. Trips
// and Summaries are index-aligned; a trial that failed leaves nil/zero slots
// and a corresponding TrialError.
type Dataset struct {
	Trips     []*sim.Trip
	Summaries []score.Summary
}

// TrialError records which trial failed and why.
type TrialError struct {
	Trial int
	Err   error
}

func (e TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Err)
}

// Generator orchestrates batch trip generation.
type Generator struct {
	gen     *sim.Generator
	workers int

	// fixedDuration forces every trial to this trip length; 0 samples a
	// random 5-60 minute duration per trial.
	fixedDuration int
}

// New creates a batch Generator. workers < 2 selects the sequential path;
// higher values fan trials out across that many goroutines, each trial with
// its own random stream. Pass a nil clock for real time.
func New(clock clockwork.Clock, workers int) *Generator {
	if workers < 1 {
		workers = 1
	}
	return &Generator{gen: sim.NewGenerator(clock), workers: workers}
}

// WithFixedDuration pins every trial to the given trip length in seconds.
// Zero restores per-trial random durations. Returns g for chaining.
func (g *Generator) WithFixedDuration(seconds int) *Generator {
	g.fixedDuration = seconds
	return g
}

// SampleScenario draws one scenario: an independent uniform pick from each
// catalog dimension and a random 5-60 minute duration.
func SampleScenario(rng *rand.Rand) (sim.Scenario, error) {
	return sampleScenario(rng, 0)
}

func sampleScenario(rng *rand.Rand, durationSeconds int) (sim.Scenario, error) {
	drivers := catalog.DriverTypes()
	roads := catalog.RoadKinds()
	periods := catalog.DayPeriods()
	weathers := catalog.WeatherKinds()

	driver := drivers[rng.IntN(len(drivers))]
	road := roads[rng.IntN(len(roads))]
	period := periods[rng.IntN(len(periods))]
	weather := weathers[rng.IntN(len(weathers))]

	if durationSeconds <= 0 {
		durationSeconds = sim.RandomDurationSeconds(rng)
	}
	return sim.NewScenario(driver, road, period, weather, durationSeconds)
}

// Generate runs numTrips independent trials and returns the ordered dataset
// plus any per-trial errors. The parent random source is consumed only to
// derive one child stream per trial, so results are reproducible for a given
// seed regardless of worker count or scheduling.
func (g *Generator) Generate(rng *rand.Rand, numTrips int) (*Dataset, []TrialError) {
	ds := &Dataset{
		Trips:     make([]*sim.Trip, numTrips),
		Summaries: make([]score.Summary, numTrips),
	}

	// Child streams are derived up front in trial order; everything after
	// this point is order-independent.
	streams := make([]*rand.Rand, numTrips)
	for i := range streams {
		streams[i] = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}

	errs := make([]TrialError, numTrips)
	hasErr := make([]bool, numTrips)

	runTrial := func(i int) {
		if err := g.trial(streams[i], ds, i); err != nil {
			errs[i] = TrialError{Trial: i, Err: err}
			hasErr[i] = true
		}
	}

	if g.workers <= 1 || numTrips <= 1 {
		for i := 0; i < numTrips; i++ {
			runTrial(i)
		}
	} else {
		var wg sync.WaitGroup
		trials := make(chan int)
		for w := 0; w < g.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range trials {
					runTrial(i)
				}
			}()
		}
		for i := 0; i < numTrips; i++ {
			trials <- i
		}
		close(trials)
		wg.Wait()
	}

	var failed []TrialError
	for i, bad := range hasErr {
		if bad {
			failed = append(failed, errs[i])
		}
	}
	return ds, failed
}

// trial runs one generate-and-score cycle into slot i.
func (g *Generator) trial(rng *rand.Rand, ds *Dataset, i int) error {
	sc, err := sampleScenario(rng, g.fixedDuration)
	if err != nil {
		return fmt.Errorf("sample scenario: %w", err)
	}

	trip, err := g.gen.Generate(rng, sc)
	if err != nil {
		return fmt.Errorf("generate trip: %w", err)
	}

	summary, err := score.Summarize(trip)
	if err != nil {
		return fmt.Errorf("score trip: %w", err)
	}

	ds.Trips[i] = trip
	ds.Summaries[i] = summary
	return nil
}
