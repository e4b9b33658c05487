package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/api/summary"
	"github.com/tripweaver/tripweaver/internal/export"
	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs the itinerary planner and its export renderings.
type Service interface {
	PlanItinerary(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error)
	ExportICS(ctx context.Context, req types.ExportRequest) ([]byte, error)
	ExportPDF(ctx context.Context, req types.ExportRequest) ([]byte, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	summarizer summary.Service // nil when no Gemini key is configured
}

func NewServiceImpl(summarizer summary.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		summarizer: summarizer,
	}
}

// PlanItinerary filters the candidate pool through the request's selection
// set, applies request defaults, and runs the greedy planner.
func (s *ServiceImpl) PlanItinerary(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "PlanItinerary", trace.WithAttributes(
		attribute.Int("plan.days", req.Days),
		attribute.Float64("plan.budget", req.Budget),
		attribute.Int("plan.candidates", len(req.POIs)),
	))
	defer span.End()

	l := s.logger.With(slog.String("service", "PlanItinerary"))

	pool := planner.NewSelection(req.SelectedNames).Filter(req.POIs)

	opts := planner.Options{
		Days:        req.Days,
		Budget:      req.Budget,
		Preferences: req.Preferences,
		Pace:        req.Pace,
		StartHour:   planner.DefaultStartHour,
		TravelMode:  req.TravelMode,
	}
	if req.StartHour != nil {
		opts.StartHour = *req.StartHour
	}
	if opts.TravelMode == "" {
		opts.TravelMode = types.TravelModeDrive
	}

	start := time.Now()
	it, err := planner.Plan(pool, opts)
	if err != nil {
		l.ErrorContext(ctx, "Planning failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Planning failed")
		return nil, err
	}

	stops := 0
	for _, d := range it.Days {
		stops += len(d.Items)
	}
	metrics.Get().PlansTotal.Add(ctx, 1)
	metrics.Get().PlanDurationSeconds.Record(ctx, time.Since(start).Seconds())
	metrics.Get().PlannedStopsPerTrip.Record(ctx, int64(stops))
	span.SetAttributes(attribute.Int("plan.stops", stops))

	resp := &types.PlanResponse{Itinerary: it}
	if stops == 0 && req.Days > 0 {
		resp.Hint = "No activities fit the constraints. Increase the budget, relax the pace, or widen the POI search."
	}

	if req.WithSummary && s.summarizer != nil && stops > 0 {
		text, sumErr := s.summarizer.Summarize(ctx, it)
		if sumErr != nil {
			// The plan itself is fine; ship it without the narrative.
			l.WarnContext(ctx, "Summary generation failed", slog.Any("error", sumErr))
		} else {
			resp.Summary = text
		}
	}

	l.InfoContext(ctx, "Itinerary planned",
		slog.Int("days", len(it.Days)),
		slog.Int("stops", stops),
		slog.Float64("total_cost", it.TotalCost),
	)
	span.SetStatus(codes.Ok, "Itinerary planned")
	return resp, nil
}

func (s *ServiceImpl) ExportICS(ctx context.Context, req types.ExportRequest) ([]byte, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ExportICS")
	defer span.End()

	resp, err := s.PlanItinerary(ctx, req.PlanRequest)
	if err != nil {
		return nil, err
	}
	out, err := export.ItineraryToICS(resp.Itinerary, req.TripStart, req.Timezone)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("calendar export failed: %w", err)
	}
	return out, nil
}

func (s *ServiceImpl) ExportPDF(ctx context.Context, req types.ExportRequest) ([]byte, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "ExportPDF")
	defer span.End()

	resp, err := s.PlanItinerary(ctx, req.PlanRequest)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = "TripWeaver Itinerary"
	}
	out, err := export.ItineraryToPDF(resp.Itinerary, title)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("document export failed: %w", err)
	}
	return out, nil
}
