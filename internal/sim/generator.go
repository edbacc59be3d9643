// Package sim generates synthetic second-by-second trip telemetry from a
// scenario and an explicit random source, and derives driving events from the
// resulting speed sequence.
//
// # Speed synthesis
//
// A trip's speed curve has three phases:
//
//  1. Acceleration: the first min(30, N/4) seconds ramp from rest toward a
//     target speed in uniform increments of 2-8 km/h, never overshooting the
//     target. The target is speed_limit * adherence + U(-10, 15), clamped to
//     [10, speed_limit*1.3].
//  2. Cruise: a mean-reverting walk. Each second redraws a congestion level,
//     converts it into a penalty on the target, and steps the speed by
//     Gaussian noise plus a drift of 0.1 toward the adjusted target.
//     Congestion is redrawn independently every second with no smoothing;
//     callers that need autocorrelated congestion must filter it themselves.
//  3. Deceleration: the last 20 seconds shed a uniform 1-4 km/h per second,
//     floored at zero.
//
// Speeds always stay within [0, speed_limit*1.3] and speed[0] is 0.
package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	// maxOverLimitFactor caps speeds at 130% of the posted limit.
	maxOverLimitFactor = 1.3
	// driftRate is the per-second pull toward the adjusted target speed.
	driftRate = 0.1
	// congestionPenaltyScale converts a 0-1 congestion level into a km/h
	// target reduction before patience damping.
	congestionPenaltyScale = 30
	// minAdjustedTarget keeps congestion from stalling the cruise target
	// below 20 km/h.
	minAdjustedTarget = 20
)

// Generator produces telemetry sequences. The clock only stamps trip start
// times; all stochastic behavior comes from the random source passed to
// Generate.
type Generator struct {
	clock clockwork.Clock
}

// NewGenerator creates a Generator. Pass nil to use the real clock.
func NewGenerator(clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{clock: clock}
}

// Generate produces one complete Trip for the scenario: speed synthesis,
// event detection and injection, lane changes, and per-second context. The
// returned trip is self-contained and never mutated afterwards.
func (g *Generator) Generate(rng *rand.Rand, sc Scenario) (*Trip, error) {
	n := sc.DurationSeconds

	speeds, congestion := g.speedSequence(rng, sc)
	events := DetectEvents(rng, speeds, sc.Profile)

	// Congestion for seconds outside the cruise phase: drawn from the same
	// distribution so the recorded series covers the whole trip.
	for i := range congestion {
		if congestion[i] < 0 {
			congestion[i] = drawCongestion(rng, sc)
		}
	}

	records := make([]Record, n)
	for i := 0; i < n; i++ {
		var accel float64
		if i > 0 {
			accel = speeds[i] - speeds[i-1]
		}
		records[i] = Record{
			Second:          i,
			SpeedKMH:        speeds[i],
			AccelKMHPerS:    accel,
			HarshBrake:      events.HarshBrake[i],
			HarshAccel:      events.HarshAccel[i],
			LaneChange:      events.LaneChange[i],
			CongestionLevel: congestion[i],
			Visibility:      sc.Condition.Visibility,
		}
	}

	return &Trip{
		TripID:    shortID(),
		DriverID:  shortID(),
		StartedAt: g.clock.Now().UTC().Truncate(time.Second),
		Scenario:  sc,
		Records:   records,
	}, nil
}

// speedSequence synthesizes the raw speed curve and returns it together with
// the congestion levels drawn during the cruise phase. Congestion slots for
// non-cruise seconds are marked -1 for the caller to fill.
func (g *Generator) speedSequence(rng *rand.Rand, sc Scenario) ([]float64, []float64) {
	n := sc.DurationSeconds
	limit := sc.RoadSpec.SpeedLimitKMH
	maxSpeed := limit * maxOverLimitFactor

	target := limit*sc.Profile.SpeedLimitAdherence + uniform(rng, -10, 15)
	target = clamp(target, 10, maxSpeed)

	speeds := make([]float64, n)
	congestion := make([]float64, n)
	for i := range congestion {
		congestion[i] = -1
	}

	accelEnd := min(30, n/4)
	for i := 1; i < accelEnd; i++ {
		speeds[i] = math.Min(speeds[i-1]+uniform(rng, 2, 8), target)
	}

	for i := accelEnd; i < n-decelSeconds; i++ {
		c := drawCongestion(rng, sc)
		congestion[i] = c

		penalty := c * congestionPenaltyScale * (1 - sc.Profile.CongestionPatience)
		adjusted := math.Max(target-penalty, minAdjustedTarget)

		next := speeds[i-1] + rng.NormFloat64()*sc.Profile.SpeedVariance + driftRate*(adjusted-speeds[i-1])
		speeds[i] = clamp(next, 0, maxSpeed)
	}

	for i := n - decelSeconds; i < n; i++ {
		speeds[i] = math.Max(speeds[i-1]-uniform(rng, 1, 4), 0)
	}

	return speeds, congestion
}

// drawCongestion samples the instantaneous congestion level for the scenario:
// road base level scaled by the time-of-day multiplier and ±20% jitter,
// clamped to [0, 1].
func drawCongestion(rng *rand.Rand, sc Scenario) float64 {
	c := sc.RoadSpec.BaseCongestion * sc.TimeSpec.CongestionMultiplier * uniform(rng, 0.8, 1.2)
	return clamp(c, 0, 1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// shortID mirrors the 8-character ids used across the persisted datasets.
func shortID() string {
	return uuid.NewString()[:8]
}
