package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/design-storm/internal/storm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	generated := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	series := storm.Series{
		ID:           "storm-abc123",
		Distribution: storm.DistSCSTypeII,
		DepthIn:      2.5,
		DurationHr:   24,
		TimestepMin:  5,
		GeneratedAt:  generated,
		Bins: []storm.Bin{
			{TimeMin: 0, IntensityInHr: 0.1, VolumeIn: 0.008, CumulativeIn: 0.008},
		},
	}

	msg, err := serializeToMessage(series)
	require.NoError(t, err)

	assert.Equal(t, []byte("storm-abc123"), msg.Key)

	var decoded storm.Series
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, series.ID, decoded.ID)
	assert.Equal(t, series.Distribution, decoded.Distribution)
	assert.Len(t, decoded.Bins, 1)
	assert.Equal(t, 0.1, decoded.Bins[0].IntensityInHr)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "distribution", msg.Headers[0].Key)
	assert.Equal(t, []byte(storm.DistSCSTypeII), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-01T12:00:00Z"), msg.Headers[1].Value)
}
