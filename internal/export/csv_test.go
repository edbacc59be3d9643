package export_test

import (
	"bytes"
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/roadrank/tripsim/internal/dataset"
	"github.com/roadrank/tripsim/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateDataset(t *testing.T, trips int) *dataset.Dataset {
	t.Helper()
	gen := dataset.New(clockwork.NewFakeClock(), 1)
	ds, errs := gen.Generate(rand.New(rand.NewPCG(21, 42)), trips)
	require.Empty(t, errs)
	return ds
}

func TestSummaryRoundTrip(t *testing.T) {
	ds := generateDataset(t, 10)

	var buf bytes.Buffer
	require.NoError(t, export.WriteSummaries(&buf, ds.Summaries))

	reloaded, err := export.ReadSummaries(&buf)
	require.NoError(t, err)
	require.Len(t, reloaded, len(ds.Summaries))

	// The declared rounding (2dp scores/speeds, 3dp congestion, 1dp
	// visibility) is applied at scoring time, so persistence must be exact.
	if diff := cmp.Diff(ds.Summaries, reloaded); diff != "" {
		t.Fatalf("summaries changed across round trip (-wrote +reloaded):\n%s", diff)
	}
}

func TestSummaryColumnOrder(t *testing.T) {
	ds := generateDataset(t, 2)

	var buf bytes.Buffer
	require.NoError(t, export.WriteSummaries(&buf, ds.Summaries))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	assert.Equal(t, export.SummaryColumns(), rows[0])
	assert.Equal(t, "trip_id", rows[0][0])
	assert.Len(t, rows, 3)
}

func TestReadSummaries_SchemaMismatch(t *testing.T) {
	t.Run("wrong column name", func(t *testing.T) {
		header := export.SummaryColumns()
		header[3] = "score" // renamed column from a hypothetical older layout
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		require.NoError(t, w.Write(header))
		w.Flush()

		_, err := export.ReadSummaries(&buf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema mismatch")
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := export.ReadSummaries(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestWriteTelemetry(t *testing.T) {
	ds := generateDataset(t, 3)

	var buf bytes.Buffer
	require.NoError(t, export.WriteTelemetry(&buf, ds.Trips))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, export.TelemetryColumns(), rows[0])

	wantRows := 1 // header
	for _, trip := range ds.Trips {
		wantRows += len(trip.Records)
	}
	require.Len(t, rows, wantRows)

	// First data row belongs to the first trip's second zero, at rest.
	first := rows[1]
	assert.Equal(t, ds.Trips[0].TripID, first[0])
	assert.Equal(t, "0", first[2])
	assert.Equal(t, "0.00", first[3])
}

func TestWriteFiles(t *testing.T) {
	ds := generateDataset(t, 2)
	dir := filepath.Join(t.TempDir(), "out")

	summaryPath, telemetryPath, err := export.WriteFiles(dir, ds.Trips, ds.Summaries)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, export.SummaryFileName), summaryPath)
	assert.Equal(t, filepath.Join(dir, export.TelemetryFileName), telemetryPath)

	f, err := os.Open(summaryPath)
	require.NoError(t, err)
	defer f.Close()

	reloaded, err := export.ReadSummaries(f)
	require.NoError(t, err)
	if diff := cmp.Diff(ds.Summaries, reloaded); diff != "" {
		t.Fatalf("summaries changed across file round trip:\n%s", diff)
	}
}

func TestWriteFiles_SkipsFailedTrials(t *testing.T) {
	ds := generateDataset(t, 2)
	ds.Trips = append(ds.Trips, nil)
	ds.Summaries = append(ds.Summaries, ds.Summaries[0])
	ds.Summaries[2].TripID = "" // failed trial leaves an empty slot

	var buf bytes.Buffer
	require.NoError(t, export.WriteSummaries(&buf, ds.Summaries))
	reloaded, err := export.ReadSummaries(&buf)
	require.NoError(t, err)
	assert.Len(t, reloaded, 2)

	buf.Reset()
	require.NoError(t, export.WriteTelemetry(&buf, ds.Trips))
}
