package planner

import (
	"math"

	"github.com/tripweaver/tripweaver/internal/types"
)

const earthRadiusKm = 6371.0

// Average speed (km/h) and fixed per-trip overhead (min) per travel mode.
// The overhead models boarding/parking friction and applies to every leg
// regardless of distance.
var modeSpeeds = map[string]float64{
	types.TravelModeWalk:    4.5,
	types.TravelModeTransit: 18.0,
	types.TravelModeDrive:   28.0,
}

var modeOverheadMins = map[string]int{
	types.TravelModeWalk:    3,
	types.TravelModeTransit: 10,
	types.TravelModeDrive:   8,
}

// Distance returns the great-circle distance in km between two coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// TravelTime converts a distance to travel minutes for the given mode,
// rounded to the nearest minute. An unknown mode falls back to driving.
// TravelModeNone always yields zero: distance still penalizes scoring but
// contributes no time to the day budget.
func TravelTime(distanceKm float64, mode string) int {
	if mode == types.TravelModeNone {
		return 0
	}
	speed, ok := modeSpeeds[mode]
	if !ok {
		speed = modeSpeeds[types.TravelModeDrive]
	}
	overhead, ok := modeOverheadMins[mode]
	if !ok {
		overhead = modeOverheadMins[types.TravelModeDrive]
	}
	return int(math.Round(distanceKm/speed*60)) + overhead
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
