package sim

import (
	"math"
	"math/rand/v2"

	"github.com/roadrank/tripsim/internal/catalog"
)

const (
	// harshBrakeDelta flags a second whose speed drop exceeds 10 km/h.
	harshBrakeDelta = -10
	// harshAccelDelta flags a second whose speed gain exceeds 12 km/h.
	harshAccelDelta = 12
	// injectionMargin excludes the first and last 30 seconds of a trip from
	// probabilistic harsh-brake injection.
	injectionMargin = 30
	// Injected brakes shed a uniform 15-25 km/h at the flagged second.
	injectedBrakeMin = 15
	injectedBrakeMax = 25
)

// Events holds the boolean event indicators aligned with a speed sequence.
type Events struct {
	HarshBrake []bool
	HarshAccel []bool
	LaneChange []bool
}

// DetectEvents derives harsh-brake and harsh-accel flags from the speed
// sequence's first differences, then injects additional harsh brakes with the
// profile's per-second probability inside [30, n-30), reducing the speed at
// each injected second. Injection happens after differential detection, so
// mutated speeds are not re-scanned; an injected event landing on an already
// flagged second counts once. Lane changes are drawn independently for every
// second.
//
// The speeds slice is mutated in place by injection; this is the only point
// in the pipeline where a generated sequence changes.
func DetectEvents(rng *rand.Rand, speeds []float64, profile catalog.DriverProfile) Events {
	n := len(speeds)
	ev := Events{
		HarshBrake: make([]bool, n),
		HarshAccel: make([]bool, n),
		LaneChange: make([]bool, n),
	}

	for i := 1; i < n; i++ {
		delta := speeds[i] - speeds[i-1]
		switch {
		case delta < harshBrakeDelta:
			ev.HarshBrake[i] = true
		case delta > harshAccelDelta:
			ev.HarshAccel[i] = true
		}
	}

	for i := injectionMargin; i < n-injectionMargin; i++ {
		if rng.Float64() < profile.HarshBrakeProbability {
			ev.HarshBrake[i] = true
			speeds[i] = math.Max(speeds[i]-uniform(rng, injectedBrakeMin, injectedBrakeMax), 0)
		}
	}

	for i := 0; i < n; i++ {
		if rng.Float64() < profile.LaneChangeProbability {
			ev.LaneChange[i] = true
		}
	}

	return ev
}
