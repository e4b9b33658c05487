// Package export renders a planned itinerary into calendar and document
// formats. It only consumes the planner's output; it never recomputes
// schedule data.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripweaver/tripweaver/internal/types"
)

const icsTimeLayout = "20060102T150405Z"

// ItineraryToICS serializes an itinerary as a VCALENDAR document. Each
// timeline entry becomes one VEVENT offset by (day−1)×24h + start_min from
// trip-start midnight. Times are stored as UTC; tzName is a display label
// carried in the calendar header when set.
func ItineraryToICS(it types.Itinerary, tripStart, tzName string) ([]byte, error) {
	base, err := time.Parse("2006-01-02", tripStart)
	if err != nil {
		return nil, fmt.Errorf("invalid trip start date %q: %w", tripStart, err)
	}
	base = base.UTC()

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//TripWeaver//EN",
		"CALSCALE:GREGORIAN",
	}
	if tzName != "" {
		lines = append(lines, "X-WR-TIMEZONE:"+tzName)
	}

	stamp := time.Now().UTC().Format(icsTimeLayout)

	for _, day := range it.Days {
		dayStart := base.AddDate(0, 0, day.Day-1)
		for _, e := range day.Timeline {
			start := dayStart.Add(time.Duration(e.StartMin) * time.Minute)
			end := dayStart.Add(time.Duration(e.EndMin) * time.Minute)

			desc := fmt.Sprintf("Category: %s\\nEstimated cost: $%.2f", e.Category, e.AvgCost)
			desc += fmt.Sprintf("\\nMaps: https://www.google.com/maps/search/?api=1&query=%f,%f", e.Lat, e.Lon)

			lines = append(lines,
				"BEGIN:VEVENT",
				"UID:"+uuid.NewString(),
				"DTSTAMP:"+stamp,
				"DTSTART:"+start.Format(icsTimeLayout),
				"DTEND:"+end.Format(icsTimeLayout),
				"SUMMARY:"+escapeICS(e.Name),
				"DESCRIPTION:"+desc,
				"END:VEVENT",
			)
		}
	}

	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n"), nil
}

// escapeICS escapes the characters RFC 5545 treats as special in text values.
func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
