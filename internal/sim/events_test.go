package sim

import (
	"testing"

	"github.com/roadrank/tripsim/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quietProfile never injects or changes lanes, isolating delta detection.
var quietProfile = catalog.DriverProfile{}

func constantSpeeds(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestDetectEvents_DeltaThresholds(t *testing.T) {
	// 60, 49 (Δ-11 brake), 49, 62 (Δ+13 accel), 52 (Δ-10, not a brake),
	// 64 (Δ+12, not an accel).
	speeds := []float64{60, 49, 49, 62, 52, 64}
	ev := DetectEvents(testRNG(1), speeds, quietProfile)

	assert.Equal(t, []bool{false, true, false, false, false, false}, ev.HarshBrake)
	assert.Equal(t, []bool{false, false, false, true, false, false}, ev.HarshAccel)
	assert.Equal(t, []bool{false, false, false, false, false, false}, ev.LaneChange)
}

func TestDetectEvents_ThresholdsAreExclusive(t *testing.T) {
	// Deltas of exactly -10 and +12 must not trigger.
	speeds := []float64{50, 40, 52}
	ev := DetectEvents(testRNG(1), speeds, quietProfile)
	assert.False(t, ev.HarshBrake[1])
	assert.False(t, ev.HarshAccel[2])
}

func TestDetectEvents_InjectionWindow(t *testing.T) {
	n := 120
	speeds := constantSpeeds(n, 100)
	profile := catalog.DriverProfile{HarshBrakeProbability: 1}

	ev := DetectEvents(testRNG(5), speeds, profile)

	for i := 0; i < n; i++ {
		if i >= 30 && i < n-30 {
			assert.True(t, ev.HarshBrake[i], "second %d inside the window must be injected", i)
			assert.GreaterOrEqual(t, speeds[i], 100.0-25.0)
			assert.LessOrEqual(t, speeds[i], 100.0-15.0)
		} else {
			assert.False(t, ev.HarshBrake[i], "second %d outside the window must stay clear", i)
			assert.Equal(t, 100.0, speeds[i])
		}
	}
}

func TestDetectEvents_InjectionFloorsAtZero(t *testing.T) {
	n := 70
	speeds := constantSpeeds(n, 5)
	profile := catalog.DriverProfile{HarshBrakeProbability: 1}

	DetectEvents(testRNG(5), speeds, profile)

	for i := 30; i < n-30; i++ {
		assert.Zero(t, speeds[i], "second %d", i)
	}
}

func TestDetectEvents_NoRescanAfterInjection(t *testing.T) {
	// Injection carves 15-25 km/h dips into a flat sequence. The deltas those
	// dips create would cross both thresholds, but detection ran first, so no
	// new events may appear.
	n := 100
	speeds := constantSpeeds(n, 100)
	profile := catalog.DriverProfile{HarshBrakeProbability: 1}

	ev := DetectEvents(testRNG(11), speeds, profile)

	for i := 0; i < n; i++ {
		assert.False(t, ev.HarshAccel[i], "mutated speeds must not be re-scanned (second %d)", i)
	}
	for i := 0; i < 30; i++ {
		assert.False(t, ev.HarshBrake[i])
	}
}

func TestDetectEvents_LaneChanges(t *testing.T) {
	n := 50
	always := catalog.DriverProfile{LaneChangeProbability: 1}
	ev := DetectEvents(testRNG(2), constantSpeeds(n, 60), always)
	for i := 0; i < n; i++ {
		require.True(t, ev.LaneChange[i], "second %d", i)
	}

	never := catalog.DriverProfile{}
	ev = DetectEvents(testRNG(2), constantSpeeds(n, 60), never)
	for i := 0; i < n; i++ {
		require.False(t, ev.LaneChange[i], "second %d", i)
	}
}
