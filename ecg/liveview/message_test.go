package liveview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ecg/ecg/playback"
	"github.com/cwbudde/algo-ecg/ecg/session"
	"github.com/cwbudde/algo-ecg/ecg/view"
	"github.com/cwbudde/algo-ecg/internal/testutil"
)

func TestDecimate(t *testing.T) {
	x := testutil.Ramp(10)

	tests := []struct {
		name      string
		maxPoints int
		want      []float64
	}{
		{"unlimited", 0, x},
		{"fits", 10, x},
		{"half", 5, []float64{0, 2, 4, 6, 8}},
		{"uneven", 4, []float64{0, 3, 6, 9}},
		{"one", 1, []float64{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decimate(x, tt.maxPoints)
			assert.Equal(t, tt.want, got)
			if tt.maxPoints > 0 {
				assert.LessOrEqual(t, len(got), tt.maxPoints)
			}
		})
	}
}

func TestFrameMessageJSON(t *testing.T) {
	f := session.Frame{
		Playback: playback.Frame{Seq: 7, Index: 0, Progress: 0},
		View: view.Frame{
			Raw: view.Window{XStart: 0, XEnd: 10, Bounds: view.Bounds{YMin: -1, YMax: 1}},
		},
	}

	data, err := json.Marshal(NewFrameMessage(f, 100))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "frame", got["type"])
	assert.Equal(t, 7.0, got["seq"])
	assert.Equal(t, 10.0, got["xEnd"])

	raw := got["raw"].(map[string]any)
	assert.Equal(t, []any{}, raw["t"])
	assert.Equal(t, []any{}, raw["v"])
	assert.Equal(t, -1.0, raw["yMin"])
}

func TestStatusMessage(t *testing.T) {
	msg := NewStatusMessage(session.Status{Loaded: true, Samples: 5, State: playback.Playing, YZoom: 2})
	assert.Equal(t, TypeStatus, msg.Type)
	assert.Equal(t, "playing", msg.State)
	assert.Equal(t, 5, msg.Samples)
	assert.Equal(t, 2.0, msg.YZoom)
}
