package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/roadrank/tripsim/internal/catalog"
)

// Deceleration phase length. Trips must be long enough to contain it.
const decelSeconds = 20

// Default trip duration range in minutes when the caller leaves it unset.
const (
	minTripMinutes = 5
	maxTripMinutes = 60
)

// Scenario is the immutable selection that parameterizes one trip: a driver
// behavior profile, road environment, time-of-day regime, weather, and
// duration. Catalog entries are resolved at construction so generation never
// touches the catalogs again.
type Scenario struct {
	Driver    catalog.DriverType
	Road      catalog.RoadKind
	TimeOfDay catalog.DayPeriod
	Weather   catalog.WeatherKind

	DurationSeconds int

	Profile   catalog.DriverProfile
	RoadSpec  catalog.RoadType
	TimeSpec  catalog.TimeFactor
	Condition catalog.WeatherCondition
}

// NewScenario resolves the four catalog selections and validates the duration.
// Unknown keys and degenerate durations are configuration errors; nothing is
// silently defaulted.
func NewScenario(
	driver catalog.DriverType,
	road catalog.RoadKind,
	timeOfDay catalog.DayPeriod,
	weather catalog.WeatherKind,
	durationSeconds int,
) (Scenario, error) {
	profile, err := catalog.DriverProfileFor(driver)
	if err != nil {
		return Scenario{}, err
	}
	roadSpec, err := catalog.RoadTypeFor(road)
	if err != nil {
		return Scenario{}, err
	}
	timeSpec, err := catalog.TimeFactorFor(timeOfDay)
	if err != nil {
		return Scenario{}, err
	}
	condition, err := catalog.WeatherConditionFor(weather)
	if err != nil {
		return Scenario{}, err
	}
	if durationSeconds <= decelSeconds {
		return Scenario{}, fmt.Errorf("trip duration %ds too short: must exceed %ds", durationSeconds, decelSeconds)
	}

	return Scenario{
		Driver:          driver,
		Road:            road,
		TimeOfDay:       timeOfDay,
		Weather:         weather,
		DurationSeconds: durationSeconds,
		Profile:         profile,
		RoadSpec:        roadSpec,
		TimeSpec:        timeSpec,
		Condition:       condition,
	}, nil
}

// RandomDurationSeconds draws a trip duration uniformly from the default
// 5-60 minute range.
func RandomDurationSeconds(rng *rand.Rand) int {
	minutes := minTripMinutes + rng.IntN(maxTripMinutes-minTripMinutes+1)
	return minutes * 60
}
