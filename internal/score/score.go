// Package score reduces a finalized telemetry sequence to a trip summary: a
// deterministic 0-100 safe-driving score, a risk category, and the fixed
// feature schema downstream model training consumes. The reduction is a pure
// function — all randomness happened upstream during generation.
package score

import (
	"errors"
	"math"
	"time"

	"github.com/roadrank/tripsim/internal/catalog"
	"github.com/roadrank/tripsim/internal/sim"
)

// RiskCategory buckets a score into one of three driver classes.
type RiskCategory string

const (
	CategorySafe     RiskCategory = "safe"
	CategoryModerate RiskCategory = "moderate"
	CategoryRisky    RiskCategory = "risky"
)

// Score deduction and bonus weights. Fixed by the scoring contract; changing
// any of them invalidates previously trained models.
const (
	harshBrakeWeight   = 3.0
	harshAccelWeight   = 1.5
	laneChangeWeight   = 0.5
	speedingPctWeight  = 0.8
	overLimitWeight    = 0.3
	congestionBonus    = 5.0
	lowVisibilityBonus = 3.0
	lowVisibilityCut   = 70.0
)

// Category thresholds, inclusive lower bounds.
const (
	safeThreshold     = 80.0
	moderateThreshold = 50.0
)

var recommendations = map[RiskCategory]string{
	CategorySafe:     "Excellent driving. Keep up this performance.",
	CategoryModerate: "Good driving, but reducing harsh braking would improve your score.",
	CategoryRisky:    "Driving style needs immediate improvement: avoid speeding and harsh braking.",
}

// Summary is the per-trip reduction of one telemetry sequence. Field order
// matches the persisted summary table schema.
type Summary struct {
	TripID    string    `json:"trip_id"`
	DriverID  string    `json:"driver_id"`
	StartedAt time.Time `json:"started_at"`

	SafeDrivingScore float64      `json:"safe_driving_score"`
	RiskCategory     RiskCategory `json:"risk_category"`

	TripDurationMinutes float64 `json:"trip_duration_minutes"`
	AvgSpeedKMH         float64 `json:"avg_speed_kmh"`
	MaxSpeedKMH         float64 `json:"max_speed_kmh"`
	HarshBrakeCount     int     `json:"harsh_brake_count"`
	HarshAccelCount     int     `json:"harsh_accel_count"`
	LaneChangeCount     int     `json:"lane_change_count"`
	SpeedingPercentage  float64 `json:"speeding_percentage"`
	AvgCongestion       float64 `json:"avg_congestion"`
	AvgVisibility       float64 `json:"avg_visibility"`

	RoadType   catalog.RoadKind    `json:"road_type"`
	DriverType catalog.DriverType  `json:"driver_type"`
	TimeOfDay  catalog.DayPeriod   `json:"time_of_day"`
	Weather    catalog.WeatherKind `json:"weather"`

	Recommendation string `json:"recommendation"`
}

// Summarize reduces a trip to its Summary. Calling it twice on the same trip
// yields identical results.
func Summarize(trip *sim.Trip) (Summary, error) {
	n := len(trip.Records)
	if n == 0 {
		return Summary{}, errors.New("trip has no telemetry records")
	}

	limit := trip.Scenario.RoadSpec.SpeedLimitKMH

	var (
		speedSum, maxSpeed    float64
		congestionSum, visSum float64
		brakes, accels, lanes int
		speedingSeconds       int
	)
	for _, rec := range trip.Records {
		speedSum += rec.SpeedKMH
		if rec.SpeedKMH > maxSpeed {
			maxSpeed = rec.SpeedKMH
		}
		congestionSum += rec.CongestionLevel
		visSum += rec.Visibility
		if rec.HarshBrake {
			brakes++
		}
		if rec.HarshAccel {
			accels++
		}
		if rec.LaneChange {
			lanes++
		}
		if rec.SpeedKMH > limit {
			speedingSeconds++
		}
	}

	total := float64(n)
	avgSpeed := speedSum / total
	speedingPct := float64(speedingSeconds) / total * 100
	avgCongestion := congestionSum / total
	avgVisibility := visSum / total

	s := 100.0
	s -= float64(brakes) * harshBrakeWeight
	s -= float64(accels) * harshAccelWeight
	s -= float64(lanes) * laneChangeWeight
	s -= speedingPct * speedingPctWeight
	if maxSpeed > limit {
		s -= (maxSpeed - limit) * overLimitWeight
	}

	// Difficult-conditions bonus: heavy traffic and poor visibility both
	// credit the driver for completing the trip at all.
	s += avgCongestion * congestionBonus
	if avgVisibility < lowVisibilityCut {
		s += lowVisibilityBonus
	}
	s = math.Min(math.Max(s, 0), 100)

	category := CategoryFor(s)

	return Summary{
		TripID:              trip.TripID,
		DriverID:            trip.DriverID,
		StartedAt:           trip.StartedAt,
		SafeDrivingScore:    round2(s),
		RiskCategory:        category,
		TripDurationMinutes: round2(total / 60),
		AvgSpeedKMH:         round2(avgSpeed),
		MaxSpeedKMH:         round2(maxSpeed),
		HarshBrakeCount:     brakes,
		HarshAccelCount:     accels,
		LaneChangeCount:     lanes,
		SpeedingPercentage:  round2(speedingPct),
		AvgCongestion:       round3(avgCongestion),
		AvgVisibility:       round1(avgVisibility),
		RoadType:            trip.Scenario.Road,
		DriverType:          trip.Scenario.Driver,
		TimeOfDay:           trip.Scenario.TimeOfDay,
		Weather:             trip.Scenario.Weather,
		Recommendation:      recommendations[category],
	}, nil
}

// CategoryFor maps a score to its risk category: >= 80 safe, >= 50 moderate,
// otherwise risky. The partition is total and non-overlapping.
func CategoryFor(score float64) RiskCategory {
	switch {
	case score >= safeThreshold:
		return CategorySafe
	case score >= moderateThreshold:
		return CategoryModerate
	default:
		return CategoryRisky
	}
}

// RecommendationFor returns the fixed recommendation text for a category.
func RecommendationFor(c RiskCategory) string {
	return recommendations[c]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
