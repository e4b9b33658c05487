package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/tripweaver/tripweaver/internal/types"
)

// ItineraryToPDF renders a paginated printable itinerary: trip totals, then
// per-day headers with each timeline entry's time range, name, category and
// travel minutes.
func ItineraryToPDF(it types.Itinerary, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Estimated total cost: $%.2f", it.TotalCost), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Remaining budget: $%.2f", it.RemainingBudget), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total activity time: %d mins", it.TotalTimeMins), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, day := range it.Days {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8,
			fmt.Sprintf("Day %d  |  Cost: $%.2f  |  Time: %d mins", day.Day, day.DayCost, day.DayTimeMins),
			"", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		if len(day.Timeline) == 0 {
			pdf.CellFormat(0, 6, "No activities planned.", "", 1, "L", false, 0, "")
			pdf.Ln(2)
			continue
		}

		for i, e := range day.Timeline {
			line := fmt.Sprintf("%d. %s-%s | %s | %s | travel %dm",
				i+1, FormatClock(e.StartMin), FormatClock(e.EndMin), e.Name, e.Category, e.TravelFromPrevMins)
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatClock renders minutes-since-midnight as a 12-hour clock time.
func FormatClock(mins int) string {
	h := (mins / 60) % 24
	m := mins % 60

	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	hh := h % 12
	if hh == 0 {
		hh = 12
	}
	return fmt.Sprintf("%d:%02d %s", hh, m, ampm)
}
