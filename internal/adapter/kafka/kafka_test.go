package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadrank/tripsim/internal/score"
)

func TestSerializeToMessage(t *testing.T) {
	started := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	summary := score.Summary{
		TripID:           "a1b2c3d4",
		DriverID:         "e5f6a7b8",
		StartedAt:        started,
		SafeDrivingScore: 87.25,
		RiskCategory:     score.CategorySafe,
		RoadType:         "highway",
		DriverType:       "safe",
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	assert.Equal(t, []byte("a1b2c3d4"), msg.Key)
	assert.Contains(t, string(msg.Value), `"safe_driving_score":87.25`)
	assert.Contains(t, string(msg.Value), `"risk_category":"safe"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "risk_category", msg.Headers[0].Key)
	assert.Equal(t, []byte("safe"), msg.Headers[0].Value)
	assert.Equal(t, "started_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(started.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_RoundTrip(t *testing.T) {
	summary := score.Summary{
		TripID:           "deadbeef",
		DriverID:         "cafef00d",
		StartedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		SafeDrivingScore: 42.5,
		RiskCategory:     score.CategoryRisky,
		HarshBrakeCount:  7,
	}

	msg, err := serializeToMessage(summary)
	require.NoError(t, err)

	var decoded score.Summary
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, summary, decoded)
}
