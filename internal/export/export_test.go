package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

func sampleItinerary() types.Itinerary {
	return types.Itinerary{
		Days: []types.Day{
			{
				Day: 1,
				Timeline: []types.TimelineEntry{
					{Name: "Union Station", Category: "nature", StartMin: 600, EndMin: 690, Lat: 39.7392, Lon: -104.9903, AvgCost: 15},
					{Name: "Museum of Art", Category: "museums", StartMin: 700, EndMin: 790, TravelFromPrevMins: 10, TravelFromPrevKm: 1.2, Lat: 39.7372, Lon: -104.9894, AvgCost: 20},
				},
				DayCost:     35,
				DayTimeMins: 190,
			},
			{
				Day:      2,
				Timeline: []types.TimelineEntry{{Name: "City Park", Category: "nature", StartMin: 600, EndMin: 690, Lat: 39.75, Lon: -104.95, AvgCost: 0}},
				DayCost:  0, DayTimeMins: 90,
			},
			{Day: 3},
		},
		TotalCost:       35,
		TotalTimeMins:   280,
		RemainingBudget: 265,
	}
}

func TestItineraryToICS(t *testing.T) {
	out, err := ItineraryToICS(sampleItinerary(), "2026-06-01", "America/Denver")
	require.NoError(t, err)
	ics := string(out)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(ics, "END:VEVENT"))
	assert.Contains(t, ics, "X-WR-TIMEZONE:America/Denver")

	// Day 1, 10:00 start.
	assert.Contains(t, ics, "DTSTART:20260601T100000Z")
	assert.Contains(t, ics, "DTEND:20260601T113000Z")
	// Day 2 events are offset by a full day.
	assert.Contains(t, ics, "DTSTART:20260602T100000Z")

	assert.Contains(t, ics, "SUMMARY:Union Station")
	assert.Contains(t, ics, "Estimated cost: $20.00")
	assert.Contains(t, ics, "https://www.google.com/maps/search/?api=1&query=")
}

func TestItineraryToICSRejectsBadDate(t *testing.T) {
	_, err := ItineraryToICS(sampleItinerary(), "June 1st", "")
	assert.Error(t, err)
}

func TestItineraryToICSEscapesSummary(t *testing.T) {
	it := types.Itinerary{Days: []types.Day{{
		Day:      1,
		Timeline: []types.TimelineEntry{{Name: "Beans, Bagels; Brews", StartMin: 600, EndMin: 660}},
	}}}

	out, err := ItineraryToICS(it, "2026-06-01", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), `SUMMARY:Beans\, Bagels\; Brews`)
}

func TestItineraryToPDF(t *testing.T) {
	out, err := ItineraryToPDF(sampleItinerary(), "Denver Long Weekend")
	require.NoError(t, err)

	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"), "output should be a PDF document")
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "12:00 AM"},
		{600, "10:00 AM"},
		{690, "11:30 AM"},
		{720, "12:00 PM"},
		{(13 * 60) + 5, "1:05 PM"},
		{(24 * 60) + 30, "12:30 AM"}, // rolls past midnight
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.mins))
	}
}
