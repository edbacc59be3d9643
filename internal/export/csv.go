package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/roadrank/tripsim/internal/catalog"
	"github.com/roadrank/tripsim/internal/score"
	"github.com/roadrank/tripsim/internal/sim"
)

const (
	// SummaryFileName and TelemetryFileName are the canonical dataset files.
	SummaryFileName   = "trip_summary.csv"
	TelemetryFileName = "telemetry_data.csv"
)

// WriteSummaries writes the one-row-per-trip summary table.
func WriteSummaries(w io.Writer, summaries []score.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryColumns); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i := range summaries {
		s := &summaries[i]
		if s.TripID == "" {
			continue // failed trial slot
		}
		row := []string{
			s.TripID,
			s.DriverID,
			s.StartedAt.Format(time.RFC3339),
			f2(s.SafeDrivingScore),
			string(s.RiskCategory),
			f2(s.TripDurationMinutes),
			f2(s.AvgSpeedKMH),
			f2(s.MaxSpeedKMH),
			strconv.Itoa(s.HarshBrakeCount),
			strconv.Itoa(s.HarshAccelCount),
			strconv.Itoa(s.LaneChangeCount),
			f2(s.SpeedingPercentage),
			f3(s.AvgCongestion),
			f1(s.AvgVisibility),
			string(s.RoadType),
			string(s.DriverType),
			string(s.TimeOfDay),
			string(s.Weather),
			s.Recommendation,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSummaries loads a summary table previously written by WriteSummaries.
// The header must match the current schema exactly; a mismatch means the file
// was produced by a different schema version.
func ReadSummaries(r io.Reader) ([]score.Summary, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read summary csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("summary csv is empty")
	}

	if err := checkHeader(rows[0], summaryColumns); err != nil {
		return nil, err
	}

	summaries := make([]score.Summary, 0, len(rows)-1)
	for i, row := range rows[1:] {
		s, err := parseSummaryRow(row)
		if err != nil {
			return nil, fmt.Errorf("summary row %d: %w", i+2, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func parseSummaryRow(row []string) (score.Summary, error) {
	if len(row) != len(summaryColumns) {
		return score.Summary{}, fmt.Errorf("expected %d columns, got %d", len(summaryColumns), len(row))
	}

	startedAt, err := time.Parse(time.RFC3339, row[2])
	if err != nil {
		return score.Summary{}, fmt.Errorf("started_at: %w", err)
	}

	fields := make([]float64, len(row))
	for _, idx := range []int{3, 5, 6, 7, 11, 12, 13} {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return score.Summary{}, fmt.Errorf("column %s: %w", summaryColumns[idx], err)
		}
		fields[idx] = v
	}

	counts := make([]int, len(row))
	for _, idx := range []int{8, 9, 10} {
		v, err := strconv.Atoi(row[idx])
		if err != nil {
			return score.Summary{}, fmt.Errorf("column %s: %w", summaryColumns[idx], err)
		}
		counts[idx] = v
	}

	return score.Summary{
		TripID:              row[0],
		DriverID:            row[1],
		StartedAt:           startedAt,
		SafeDrivingScore:    fields[3],
		RiskCategory:        score.RiskCategory(row[4]),
		TripDurationMinutes: fields[5],
		AvgSpeedKMH:         fields[6],
		MaxSpeedKMH:         fields[7],
		HarshBrakeCount:     counts[8],
		HarshAccelCount:     counts[9],
		LaneChangeCount:     counts[10],
		SpeedingPercentage:  fields[11],
		AvgCongestion:       fields[12],
		AvgVisibility:       fields[13],
		RoadType:            catalog.RoadKind(row[14]),
		DriverType:          catalog.DriverType(row[15]),
		TimeOfDay:           catalog.DayPeriod(row[16]),
		Weather:             catalog.WeatherKind(row[17]),
		Recommendation:      row[18],
	}, nil
}

// WriteTelemetry writes the one-row-per-trip-second telemetry table for all
// trips, in trip order.
func WriteTelemetry(w io.Writer, trips []*sim.Trip) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(telemetryColumns); err != nil {
		return fmt.Errorf("write telemetry header: %w", err)
	}

	for _, trip := range trips {
		if trip == nil {
			continue // failed trial slot
		}
		sc := trip.Scenario
		for i := range trip.Records {
			rec := &trip.Records[i]
			row := []string{
				trip.TripID,
				trip.DriverID,
				strconv.Itoa(rec.Second),
				f2(rec.SpeedKMH),
				f2(rec.AccelKMHPerS),
				boolFlag(rec.HarshBrake),
				boolFlag(rec.HarshAccel),
				boolFlag(rec.LaneChange),
				f3(rec.CongestionLevel),
				f1(rec.Visibility),
				f0(sc.RoadSpec.SpeedLimitKMH),
				f0(sc.RoadSpec.SignDensity),
				f2(sc.RoadSpec.Curvature),
				string(sc.Road),
				string(sc.Driver),
				string(sc.TimeOfDay),
				string(sc.Weather),
				trip.StartedAt.Add(time.Duration(rec.Second) * time.Second).Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write telemetry row (trip %s second %d): %w", trip.TripID, rec.Second, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFiles writes both dataset tables into dir, creating it if needed.
func WriteFiles(dir string, trips []*sim.Trip, summaries []score.Summary) (summaryPath, telemetryPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	summaryPath = filepath.Join(dir, SummaryFileName)
	if err := writeFile(summaryPath, func(w io.Writer) error {
		return WriteSummaries(w, summaries)
	}); err != nil {
		return "", "", err
	}

	telemetryPath = filepath.Join(dir, TelemetryFileName)
	if err := writeFile(telemetryPath, func(w io.Writer) error {
		return WriteTelemetry(w, trips)
	}); err != nil {
		return "", "", err
	}

	return summaryPath, telemetryPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("schema mismatch: expected %d columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("schema mismatch at column %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	return nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func f0(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
