package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/tripweaver/tripweaver/app/middleware"
	"github.com/tripweaver/tripweaver/internal/api"
	"github.com/tripweaver/tripweaver/internal/types"
)

type Handler struct {
	itineraryService Service
	validate         *validator.Validate
	logger           *slog.Logger
}

func NewHandler(itineraryService Service, logger *slog.Logger) *Handler {
	return &Handler{
		itineraryService: itineraryService,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		logger:           logger,
	}
}

// userIDFromRequest reads the authenticated user set by the auth middleware.
func userIDFromRequest(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// SaveItinerary handles POST /itineraries.
func (h *Handler) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "SaveItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SaveItinerary"))

	userID, ok := userIDFromRequest(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.SaveItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "A title and an itinerary payload are required")
		return
	}

	saved, err := h.itineraryService.SaveItinerary(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// GetItineraries handles GET /itineraries with page/page_size query params.
func (h *Handler) GetItineraries(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItineraries", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetItineraries"))

	userID, ok := userIDFromRequest(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	resp, err := h.itineraryService.GetItineraries(ctx, userID, page, pageSize)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list itineraries")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetItinerary handles GET /itineraries/{id}.
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetItinerary"))

	userID, ok := userIDFromRequest(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	saved, err := h.itineraryService.GetItinerary(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, saved)
}

// DeleteItinerary handles DELETE /itineraries/{id}.
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "DeleteItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "DeleteItinerary"))

	userID, ok := userIDFromRequest(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary ID")
		return
	}

	if err := h.itineraryService.DeleteItinerary(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
