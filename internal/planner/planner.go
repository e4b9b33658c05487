// Package planner builds multi-day itineraries from a candidate POI pool
// using greedy, constraint-aware sequential selection. It is pure in-memory
// computation: no I/O, no randomness, safe for concurrent use as long as each
// call gets its own candidate slice.
package planner

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tripweaver/tripweaver/internal/types"
)

const (
	// Combined activity + inter-stop travel ceiling per day. Not
	// configurable and not reduced by the start hour.
	dayTimeBudgetMins = 480

	travelPenaltyPerKm = 0.5
	costPenaltyPerUnit = 0.02
	defaultSlotsPerDay = 4
)

// DefaultStartHour is used when a request does not specify one.
const DefaultStartHour = 10

// ErrInvalidPOI marks a candidate that violates the input contract (empty
// name or unusable coordinates). Such records must be filtered upstream;
// failing fast here beats propagating NaNs into distance math.
var ErrInvalidPOI = errors.New("invalid POI record")

// Options are the trip parameters for one planning run.
type Options struct {
	Days        int
	Budget      float64
	Preferences types.Preferences
	Pace        string // relaxed|moderate|packed; unknown -> moderate
	StartHour   int    // hour of day the timeline clock starts at
	TravelMode  string // drive|transit|walk|none; unknown -> drive
}

var paceSlots = map[string]int{
	types.PaceRelaxed:  3,
	types.PaceModerate: 4,
	types.PacePacked:   5,
}

// SlotsForPace returns how many activity slots a pace allows per day.
func SlotsForPace(pace string) int {
	if n, ok := paceSlots[strings.ToLower(pace)]; ok {
		return n
	}
	return defaultSlotsPerDay
}

// Plan greedily fills each day with up to SlotsForPace(opts.Pace) POIs,
// picking at every slot the feasible candidate with the highest
// score − 0.5×travelKm − 0.02×cost. The money budget is shared across the
// whole trip; the 480-minute time ceiling resets per day. Days <= 0 yields
// an empty itinerary. The input slice is never mutated.
func Plan(pois []types.POI, opts Options) (types.Itinerary, error) {
	for i := range pois {
		if err := validatePOI(pois[i]); err != nil {
			return types.Itinerary{}, fmt.Errorf("candidate %q: %w", pois[i].Name, err)
		}
	}

	slots := SlotsForPace(opts.Pace)
	remaining := make([]types.POI, len(pois))
	copy(remaining, pois)

	remainingBudget := opts.Budget
	itinerary := types.Itinerary{Days: []types.Day{}}
	totalCost := 0.0
	totalTime := 0

	for d := 0; d < opts.Days; d++ {
		// Score-descending order anchors each day on the strongest
		// candidates and makes value ties resolve to the higher base
		// score (first encountered wins).
		sort.SliceStable(remaining, func(i, j int) bool {
			return Score(remaining[i], opts.Preferences) > Score(remaining[j], opts.Preferences)
		})

		dayItems := []types.POI{}
		dayTime := 0
		dayCost := 0.0
		var current *types.POI

		for s := 0; s < slots; s++ {
			bestIdx := -1
			bestValue := math.Inf(-1)

			for i := range remaining {
				cand := remaining[i]
				if cand.AvgCost > remainingBudget {
					continue
				}
				travelKm, travelMins := legFrom(current, cand, opts.TravelMode)
				if dayTime+travelMins+cand.VisitDurationMins > dayTimeBudgetMins {
					continue
				}
				value := Score(cand, opts.Preferences) -
					travelPenaltyPerKm*travelKm -
					costPenaltyPerUnit*cand.AvgCost
				if value > bestValue {
					bestValue, bestIdx = value, i
				}
			}

			if bestIdx < 0 {
				break
			}

			chosen := remaining[bestIdx]
			remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

			travelKm, travelMins := legFrom(current, chosen, opts.TravelMode)
			chosen.TravelFromPrevMins = travelMins
			chosen.TravelFromPrevKm = round2(travelKm)

			dayItems = append(dayItems, chosen)
			current = &dayItems[len(dayItems)-1]

			remainingBudget -= chosen.AvgCost
			dayCost += chosen.AvgCost
			dayTime += travelMins + chosen.VisitDurationMins
		}

		itinerary.Days = append(itinerary.Days, types.Day{
			Day:         d + 1,
			Items:       dayItems,
			Timeline:    buildTimeline(dayItems, opts.StartHour),
			DayCost:     round2(dayCost),
			DayTimeMins: dayTime,
		})

		totalCost += dayCost
		totalTime += dayTime
	}

	itinerary.TotalCost = round2(totalCost)
	itinerary.TotalTimeMins = totalTime
	itinerary.RemainingBudget = round2(remainingBudget)
	return itinerary, nil
}

// legFrom computes the travel leg from the previously selected stop to a
// candidate. The first stop of a day incurs no travel.
func legFrom(current *types.POI, cand types.POI, mode string) (km float64, mins int) {
	if current == nil {
		return 0, 0
	}
	km = Distance(current.Lat, current.Lon, cand.Lat, cand.Lon)
	return km, TravelTime(km, mode)
}

// buildTimeline lays the selected POIs onto clock times, starting at
// startHour and advancing by each stop's recorded travel-from-previous
// minutes before its visit.
func buildTimeline(items []types.POI, startHour int) []types.TimelineEntry {
	cursor := startHour * 60
	timeline := make([]types.TimelineEntry, 0, len(items))

	for i, item := range items {
		if i > 0 {
			cursor += item.TravelFromPrevMins
		}
		start := cursor
		end := start + item.VisitDurationMins
		cursor = end

		timeline = append(timeline, types.TimelineEntry{
			Name:               item.Name,
			Category:           item.Category,
			StartMin:           start,
			EndMin:             end,
			TravelFromPrevMins: item.TravelFromPrevMins,
			TravelFromPrevKm:   item.TravelFromPrevKm,
			Lat:                item.Lat,
			Lon:                item.Lon,
			AvgCost:            item.AvgCost,
		})
	}
	return timeline
}

func validatePOI(p types.POI) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPOI)
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) ||
		p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: unusable coordinates", ErrInvalidPOI)
	}
	return nil
}

// round2 rounds monetary figures to cents. Applied only at day and trip
// aggregation to keep displayed sums free of float drift.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
