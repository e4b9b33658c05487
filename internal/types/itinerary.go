package types

import (
	"time"

	"github.com/google/uuid"
)

// Pace controls how many activity slots are attempted per day.
const (
	PaceRelaxed  = "relaxed"
	PaceModerate = "moderate"
	PacePacked   = "packed"
)

// Travel modes understood by the planner. TravelModeNone keeps the distance
// penalty in scoring but contributes zero minutes to the day time budget.
const (
	TravelModeDrive   = "drive"
	TravelModeTransit = "transit"
	TravelModeWalk    = "walk"
	TravelModeNone    = "none"
)

// TimelineEntry is the derived, read-only presentation of one scheduled stop.
// StartMin/EndMin are minutes since midnight.
type TimelineEntry struct {
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	StartMin           int     `json:"start_min"`
	EndMin             int     `json:"end_min"`
	TravelFromPrevMins int     `json:"travel_from_prev_mins"`
	TravelFromPrevKm   float64 `json:"travel_from_prev_km"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	AvgCost            float64 `json:"avg_cost"`
}

// Day is one planned day: the selected POIs in visit order, the derived
// timeline, and the day's cost and combined activity+travel time.
type Day struct {
	Day         int             `json:"day"`
	Items       []POI           `json:"items"`
	Timeline    []TimelineEntry `json:"timeline"`
	DayCost     float64         `json:"day_cost"`
	DayTimeMins int             `json:"day_time_mins"`
}

// Itinerary is the planner's output. Monetary figures are rounded to cents
// at aggregation. Fully serializable to plain JSON so rendering and export
// collaborators need no further computation.
type Itinerary struct {
	Days            []Day   `json:"days"`
	TotalCost       float64 `json:"total_cost"`
	TotalTimeMins   int     `json:"total_time_mins"`
	RemainingBudget float64 `json:"remaining_budget"`
}

// PlanRequest carries the trip parameters and the curated candidate list.
// Days <= 0 is tolerated and yields an empty itinerary.
type PlanRequest struct {
	Days          int         `json:"days" validate:"gte=0,lte=30"`
	Budget        float64     `json:"budget" validate:"gte=0"`
	Preferences   Preferences `json:"preferences" validate:"dive,gte=0,lte=1"`
	Pace          string      `json:"pace,omitempty" validate:"omitempty,oneof=relaxed moderate packed"`
	StartHour     *int        `json:"start_hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	TravelMode    string      `json:"travel_mode,omitempty" validate:"omitempty,oneof=drive transit walk none"`
	POIs          []POI       `json:"pois" validate:"required,min=1,dive"`
	SelectedNames []string    `json:"selected_names,omitempty"`
	WithSummary   bool        `json:"with_summary,omitempty"`
}

// PlanResponse wraps the itinerary together with the optional generated
// narrative and a hint when the plan came out empty or short.
type PlanResponse struct {
	Itinerary Itinerary `json:"itinerary"`
	Summary   string    `json:"summary,omitempty"`
	Hint      string    `json:"hint,omitempty"`
}

// ExportRequest is a plan request plus the calendar anchor for exports.
// TripStart is an ISO calendar date; Timezone is a display label only.
type ExportRequest struct {
	PlanRequest
	TripStart string `json:"trip_start" validate:"required,datetime=2006-01-02"`
	Timezone  string `json:"timezone,omitempty"`
	Title     string `json:"title,omitempty"`
}

// SavedItinerary is a persisted planning result owned by a user.
type SavedItinerary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Itinerary Itinerary `json:"itinerary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveItineraryRequest persists a previously planned itinerary.
type SaveItineraryRequest struct {
	Title     string    `json:"title" validate:"required,min=1,max=200"`
	Itinerary Itinerary `json:"itinerary" validate:"required"`
}

// PaginatedItinerariesResponse pages through a user's saved itineraries.
type PaginatedItinerariesResponse struct {
	Itineraries  []SavedItinerary `json:"itineraries"`
	TotalRecords int              `json:"total_records"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}
