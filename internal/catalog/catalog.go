// Package catalog holds the static scenario catalogs that parameterize trip
// generation: driver behavior profiles, road types, time-of-day factors, and
// weather conditions. The tables are loaded once at init and are read-only;
// lookups fail on unknown keys rather than substituting defaults.
package catalog

import "fmt"

// DriverType identifies a driver behavior profile.
type DriverType string

const (
	DriverSafe       DriverType = "safe"
	DriverModerate   DriverType = "moderate"
	DriverAggressive DriverType = "aggressive"
	DriverDistracted DriverType = "distracted"
)

// DriverProfile describes the stochastic behavior parameters of one driver type.
type DriverProfile struct {
	// SpeedVariance is the standard deviation (km/h) of the cruise-phase
	// speed noise.
	SpeedVariance float64
	// AccelerationMin/Max bound the profile's plausible per-second speed
	// change (km/h per second).
	AccelerationMin float64
	AccelerationMax float64
	// HarshBrakeProbability is the per-second chance of an injected harsh
	// brake during the eligible window of a trip.
	HarshBrakeProbability float64
	// LaneChangeProbability is the independent per-second lane change chance.
	LaneChangeProbability float64
	// SpeedLimitAdherence scales the speed limit into the driver's target
	// speed (1.0 = drives exactly at the limit).
	SpeedLimitAdherence float64
	// SignIgnoreRate is the fraction of road signs the driver disregards.
	SignIgnoreRate float64
	// CongestionPatience dampens how strongly congestion slows the driver
	// down (1.0 = fully yields to traffic).
	CongestionPatience float64
	// RiskLevel is the profile's prior risk on a 0-1 scale.
	RiskLevel float64
}

// RoadKind identifies a road environment.
type RoadKind string

const (
	RoadHighway     RoadKind = "highway"
	RoadMain        RoadKind = "main_road"
	RoadCityStreet  RoadKind = "city_street"
	RoadResidential RoadKind = "residential"
)

// RoadType describes the physical and regulatory context of a road.
type RoadType struct {
	SpeedLimitKMH    float64
	SignDensity      float64 // signs per km
	BaseCongestion   float64 // 0-1 before time-of-day scaling
	Curvature        float64 // average road curvature, 0-1
	AccidentRiskBase float64
}

// DayPeriod identifies a time-of-day traffic regime.
type DayPeriod string

const (
	PeriodMorningRush DayPeriod = "morning_rush"
	PeriodMidday      DayPeriod = "midday"
	PeriodEveningRush DayPeriod = "evening_rush"
	PeriodNight       DayPeriod = "night"
	PeriodLateNight   DayPeriod = "late_night"
)

// TimeFactor scales congestion and accident risk for a time of day.
type TimeFactor struct {
	CongestionMultiplier   float64
	AccidentRiskMultiplier float64
	// HourStart/HourEnd delimit the period on a 24h clock, end exclusive.
	HourStart int
	HourEnd   int
}

// WeatherKind identifies a weather condition.
type WeatherKind string

const (
	WeatherClear     WeatherKind = "clear"
	WeatherLightRain WeatherKind = "light_rain"
	WeatherHeavyRain WeatherKind = "heavy_rain"
	WeatherSandstorm WeatherKind = "sandstorm"
	WeatherFog       WeatherKind = "fog"
)

// WeatherCondition describes visibility and risk for a weather kind.
type WeatherCondition struct {
	Visibility     float64 // 0-100
	RiskMultiplier float64
}

var driverProfiles = map[DriverType]DriverProfile{
	DriverSafe: {
		SpeedVariance:         2,
		AccelerationMin:       -3,
		AccelerationMax:       3,
		HarshBrakeProbability: 0.005,
		LaneChangeProbability: 0.001,
		SpeedLimitAdherence:   0.95,
		SignIgnoreRate:        0.05,
		CongestionPatience:    0.9,
		RiskLevel:             0.1,
	},
	DriverModerate: {
		SpeedVariance:         5,
		AccelerationMin:       -6,
		AccelerationMax:       6,
		HarshBrakeProbability: 0.02,
		LaneChangeProbability: 0.003,
		SpeedLimitAdherence:   0.80,
		SignIgnoreRate:        0.20,
		CongestionPatience:    0.7,
		RiskLevel:             0.4,
	},
	DriverAggressive: {
		SpeedVariance:         8,
		AccelerationMin:       -12,
		AccelerationMax:       12,
		HarshBrakeProbability: 0.08,
		LaneChangeProbability: 0.008,
		SpeedLimitAdherence:   0.60,
		SignIgnoreRate:        0.40,
		CongestionPatience:    0.4,
		RiskLevel:             0.8,
	},
	DriverDistracted: {
		SpeedVariance:         10,
		AccelerationMin:       -10,
		AccelerationMax:       8,
		HarshBrakeProbability: 0.06,
		LaneChangeProbability: 0.012,
		SpeedLimitAdherence:   0.70,
		SignIgnoreRate:        0.70,
		CongestionPatience:    0.5,
		RiskLevel:             0.7,
	},
}

var roadTypes = map[RoadKind]RoadType{
	RoadHighway: {
		SpeedLimitKMH:    120,
		SignDensity:      2,
		BaseCongestion:   0.2,
		Curvature:        0.05,
		AccidentRiskBase: 0.15,
	},
	RoadMain: {
		SpeedLimitKMH:    80,
		SignDensity:      5,
		BaseCongestion:   0.4,
		Curvature:        0.15,
		AccidentRiskBase: 0.25,
	},
	RoadCityStreet: {
		SpeedLimitKMH:    60,
		SignDensity:      8,
		BaseCongestion:   0.6,
		Curvature:        0.30,
		AccidentRiskBase: 0.35,
	},
	RoadResidential: {
		SpeedLimitKMH:    40,
		SignDensity:      12,
		BaseCongestion:   0.3,
		Curvature:        0.25,
		AccidentRiskBase: 0.20,
	},
}

var timeFactors = map[DayPeriod]TimeFactor{
	PeriodMorningRush: {CongestionMultiplier: 1.8, AccidentRiskMultiplier: 1.3, HourStart: 6, HourEnd: 9},
	PeriodMidday:      {CongestionMultiplier: 1.0, AccidentRiskMultiplier: 0.8, HourStart: 9, HourEnd: 15},
	PeriodEveningRush: {CongestionMultiplier: 2.0, AccidentRiskMultiplier: 1.5, HourStart: 15, HourEnd: 19},
	PeriodNight:       {CongestionMultiplier: 0.5, AccidentRiskMultiplier: 1.2, HourStart: 19, HourEnd: 24},
	PeriodLateNight:   {CongestionMultiplier: 0.3, AccidentRiskMultiplier: 1.4, HourStart: 0, HourEnd: 6},
}

var weatherConditions = map[WeatherKind]WeatherCondition{
	WeatherClear:     {Visibility: 100, RiskMultiplier: 1.0},
	WeatherLightRain: {Visibility: 70, RiskMultiplier: 1.3},
	WeatherHeavyRain: {Visibility: 40, RiskMultiplier: 1.6},
	WeatherSandstorm: {Visibility: 20, RiskMultiplier: 2.0},
	WeatherFog:       {Visibility: 30, RiskMultiplier: 1.8},
}

// Ordered key slices back uniform scenario sampling. Order is fixed so that a
// seeded random source always samples the same sequence of scenarios.
var (
	driverTypes = []DriverType{DriverSafe, DriverModerate, DriverAggressive, DriverDistracted}
	roadKinds   = []RoadKind{RoadHighway, RoadMain, RoadCityStreet, RoadResidential}
	dayPeriods  = []DayPeriod{PeriodMorningRush, PeriodMidday, PeriodEveningRush, PeriodNight, PeriodLateNight}
	weathers    = []WeatherKind{WeatherClear, WeatherLightRain, WeatherHeavyRain, WeatherSandstorm, WeatherFog}
)

// DriverProfileFor returns the behavior profile for a driver type.
func DriverProfileFor(d DriverType) (DriverProfile, error) {
	p, ok := driverProfiles[d]
	if !ok {
		return DriverProfile{}, fmt.Errorf("unknown driver type %q", d)
	}
	return p, nil
}

// RoadTypeFor returns the road context for a road kind.
func RoadTypeFor(r RoadKind) (RoadType, error) {
	rt, ok := roadTypes[r]
	if !ok {
		return RoadType{}, fmt.Errorf("unknown road type %q", r)
	}
	return rt, nil
}

// TimeFactorFor returns the traffic factors for a day period.
func TimeFactorFor(p DayPeriod) (TimeFactor, error) {
	tf, ok := timeFactors[p]
	if !ok {
		return TimeFactor{}, fmt.Errorf("unknown time of day %q", p)
	}
	return tf, nil
}

// WeatherConditionFor returns the conditions for a weather kind.
func WeatherConditionFor(w WeatherKind) (WeatherCondition, error) {
	wc, ok := weatherConditions[w]
	if !ok {
		return WeatherCondition{}, fmt.Errorf("unknown weather %q", w)
	}
	return wc, nil
}

// DriverTypes returns all driver types in catalog order.
func DriverTypes() []DriverType { return append([]DriverType(nil), driverTypes...) }

// RoadKinds returns all road kinds in catalog order.
func RoadKinds() []RoadKind { return append([]RoadKind(nil), roadKinds...) }

// DayPeriods returns all day periods in catalog order.
func DayPeriods() []DayPeriod { return append([]DayPeriod(nil), dayPeriods...) }

// WeatherKinds returns all weather kinds in catalog order.
func WeatherKinds() []WeatherKind { return append([]WeatherKind(nil), weathers...) }
