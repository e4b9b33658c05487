package types

// Category labels for POIs. The set is open-ended: anything the acquisition
// layer cannot map falls back to CategoryOther.
const (
	CategoryNature     = "nature"
	CategoryFood       = "food"
	CategoryMuseums    = "museums"
	CategoryNightlife  = "nightlife"
	CategoryCoffee     = "coffee"
	CategoryShopping   = "shopping"
	CategoryViewpoints = "viewpoints"
	CategoryEvents     = "events"
	CategoryOther      = "other"
)

// Defaults applied by the acquisition layer when upstream data lacks a field.
// The planner does not re-validate these.
const (
	DefaultAvgCost           = 15.0
	DefaultVisitDurationMins = 90
	DefaultRating            = 4.3
)

// POI represents a visitable place. Records handed to the planner are treated
// as read-only; the planner works on its own copy and only that copy carries
// the per-run travel annotations.
type POI struct {
	Name              string  `json:"name" validate:"required"`
	Category          string  `json:"category"`
	Lat               float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon               float64 `json:"lon" validate:"gte=-180,lte=180"`
	AvgCost           float64 `json:"avg_cost" validate:"gte=0"`
	VisitDurationMins int     `json:"visit_duration_mins" validate:"gte=0"`
	Rating            float64 `json:"rating"`

	// Ephemeral annotations attached during a planning run. Zero for the
	// first stop of a day.
	TravelFromPrevMins int     `json:"travel_from_prev_mins"`
	TravelFromPrevKm   float64 `json:"travel_from_prev_km"`
}

// Preferences maps a category name to an interest weight in [0, 1].
// Categories not present contribute 0.
type Preferences map[string]float64

// POISearchRequest describes an acquisition query: a centre coordinate,
// search radius and result cap. Place, when set, is geocoded first.
type POISearchRequest struct {
	Place    string  `json:"place,omitempty"`
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"lon" validate:"gte=-180,lte=180"`
	RadiusKm float64 `json:"radius_km" validate:"gt=0,lte=50"`
	Limit    int     `json:"limit" validate:"gte=0,lte=500"`
}
