package sim

import "time"

// Record is one second of simulated telemetry.
type Record struct {
	Second          int     `json:"second"`
	SpeedKMH        float64 `json:"speed_kmh"`
	AccelKMHPerS    float64 `json:"acceleration_kmh_per_s"`
	HarshBrake      bool    `json:"harsh_brake"`
	HarshAccel      bool    `json:"harsh_accel"`
	LaneChange      bool    `json:"lane_change"`
	CongestionLevel float64 `json:"congestion_level"`
	Visibility      float64 `json:"visibility"`
}

// Trip is a complete generated telemetry sequence plus its identifiers and
// the scenario that produced it. Once Generate returns, a Trip is frozen:
// downstream consumers only read it.
type Trip struct {
	TripID    string    `json:"trip_id"`
	DriverID  string    `json:"driver_id"`
	StartedAt time.Time `json:"started_at"`
	Scenario  Scenario  `json:"-"`
	Records   []Record  `json:"records"`
}
