package plan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/internal/api"
	"github.com/tripweaver/tripweaver/internal/planner"
	"github.com/tripweaver/tripweaver/internal/types"
)

type Handler struct {
	planService Service
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewHandler(planService Service, logger *slog.Logger) *Handler {
	return &Handler{
		planService: planService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// PlanItinerary handles POST /itinerary/plan.
func (h *Handler) PlanItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "PlanItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/plan"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanItinerary"))

	var req types.PlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		l.WarnContext(ctx, "Request validation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, err := h.planService.PlanItinerary(ctx, req)
	if err != nil {
		h.writePlanError(ctx, w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// ExportICS handles POST /itinerary/plan/ics. It plans and returns the
// result as a downloadable calendar file.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "ExportICS", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/plan/ics"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ExportICS"))

	req, ok := h.decodeExportRequest(ctx, w, r, l)
	if !ok {
		return
	}

	out, err := h.planService.ExportICS(ctx, req)
	if err != nil {
		h.writePlanError(ctx, w, r, l, err)
		return
	}

	api.WriteAttachment(w, "text/calendar", "itinerary.ics", out)
}

// ExportPDF handles POST /itinerary/plan/pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlanHandler").Start(r.Context(), "ExportPDF", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/plan/pdf"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ExportPDF"))

	req, ok := h.decodeExportRequest(ctx, w, r, l)
	if !ok {
		return
	}

	out, err := h.planService.ExportPDF(ctx, req)
	if err != nil {
		h.writePlanError(ctx, w, r, l, err)
		return
	}

	api.WriteAttachment(w, "application/pdf", "itinerary.pdf", out)
}

func (h *Handler) decodeExportRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger) (types.ExportRequest, bool) {
	var req types.ExportRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		l.WarnContext(ctx, "Request validation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, validationMessage(err))
		return req, false
	}
	return req, true
}

func (h *Handler) writePlanError(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	if errors.Is(err, planner.ErrInvalidPOI) {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l.ErrorContext(ctx, "Planning failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to plan the itinerary")
}

// validationMessage flattens validator errors into a client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	return "Invalid value for field '" + fe.Field() + "' (rule: " + fe.Tag() + ")"
}
