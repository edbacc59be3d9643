// Package export persists a generated dataset as two flat CSV tables: one
// row per trip (summaries) and one row per trip-second (telemetry). Column
// order is a versioned contract — downstream feature encoding maps columns
// positionally, so the ordered lists here are the single source of truth for
// both writer and reader.
package export

// SchemaVersion identifies the current column layout. Bump it whenever a
// column is added, removed, or reordered.
const SchemaVersion = "v1"

// Declared rounding: score, speeds, percentages, and durations carry two
// decimals; congestion three; visibility one.
var summaryColumns = []string{
	"trip_id",
	"driver_id",
	"started_at",
	"safe_driving_score",
	"risk_category",
	"trip_duration_minutes",
	"avg_speed_kmh",
	"max_speed_kmh",
	"harsh_brake_count",
	"harsh_accel_count",
	"lane_change_count",
	"speeding_percentage",
	"avg_congestion",
	"avg_visibility",
	"road_type",
	"driver_type",
	"time_of_day",
	"weather",
	"recommendation",
}

var telemetryColumns = []string{
	"trip_id",
	"driver_id",
	"second",
	"speed_kmh",
	"acceleration_kmh_per_s",
	"harsh_brake",
	"harsh_accel",
	"lane_change",
	"congestion_level",
	"visibility",
	"speed_limit",
	"sign_density",
	"road_curvature",
	"road_type",
	"driver_type",
	"time_of_day",
	"weather",
	"timestamp",
}

// SummaryColumns returns the ordered summary-table header.
func SummaryColumns() []string { return append([]string(nil), summaryColumns...) }

// TelemetryColumns returns the ordered telemetry-table header.
func TelemetryColumns() []string { return append([]string(nil), telemetryColumns...) }
