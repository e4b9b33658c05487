package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripweaver/tripweaver/internal/types"
)

func TestDistance(t *testing.T) {
	t.Run("identical points are zero", func(t *testing.T) {
		assert.InDelta(t, 0, Distance(39.7392, -104.9903, 39.7392, -104.9903), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := Distance(39.7392, -104.9903, 32.7767, -96.7970)
		ba := Distance(32.7767, -96.7970, 39.7392, -104.9903)
		assert.InDelta(t, ab, ba, 1e-9)
	})

	t.Run("denver to dallas is about 1000km", func(t *testing.T) {
		got := Distance(39.7392, -104.9903, 32.7767, -96.7970)
		assert.InDelta(t, 1000, got, 50)
	})
}

func TestTravelTime(t *testing.T) {
	tests := []struct {
		name string
		km   float64
		mode string
		want int
	}{
		{"zero distance drive is pure overhead", 0, types.TravelModeDrive, 8},
		{"one hour drive plus overhead", 28, types.TravelModeDrive, 68},
		{"walk", 4.5, types.TravelModeWalk, 63},
		{"transit", 18, types.TravelModeTransit, 70},
		{"unknown mode falls back to drive", 28, "teleport", 68},
		{"none contributes no time", 28, types.TravelModeNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TravelTime(tt.km, tt.mode))
		})
	}
}

func TestScore(t *testing.T) {
	prefs := types.Preferences{"nature": 0.8, "food": 0.4}

	p := types.POI{Name: "City Park", Category: "nature", Rating: 4.0}
	assert.InDelta(t, 4.0+2.0*0.8, Score(p, prefs), 1e-9)

	// Unknown categories contribute nothing.
	p.Category = "museums"
	assert.InDelta(t, 4.0, Score(p, prefs), 1e-9)

	// Category matching is case-insensitive.
	p.Category = "Nature"
	assert.InDelta(t, 4.0+2.0*0.8, Score(p, prefs), 1e-9)

	// Nil prefs are valid.
	assert.InDelta(t, 4.0, Score(types.POI{Rating: 4.0, Category: "food"}, nil), 1e-9)
}
