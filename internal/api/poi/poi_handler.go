package poi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/internal/api"
	"github.com/tripweaver/tripweaver/internal/types"
)

type Handler struct {
	poiService Service
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewHandler(poiService Service, logger *slog.Logger) *Handler {
	return &Handler{
		poiService: poiService,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

type searchResponse struct {
	POIs []types.POI `json:"pois"`
	Hint string      `json:"hint,omitempty"`
}

// SearchPOIs handles GET /poi/search. Accepts either a place name or an
// explicit lat/lon pair, plus radius_km and limit.
func (h *Handler) SearchPOIs(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("POIHandler").Start(r.Context(), "SearchPOIs", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/poi/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPOIs"))
	l.DebugContext(ctx, "Search POIs handler invoked")

	q := r.URL.Query()
	req := types.POISearchRequest{
		Place:    q.Get("place"),
		RadiusKm: 8.0,
		Limit:    120,
	}

	var parseErr error
	if v := q.Get("lat"); v != "" {
		req.Lat, parseErr = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("lon"); parseErr == nil && v != "" {
		req.Lon, parseErr = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("radius_km"); parseErr == nil && v != "" {
		req.RadiusKm, parseErr = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("limit"); parseErr == nil && v != "" {
		req.Limit, parseErr = strconv.Atoi(v)
	}
	if parseErr != nil {
		l.ErrorContext(ctx, "Invalid query parameter", slog.Any("error", parseErr))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	if req.Place == "" && q.Get("lat") == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Either place or lat/lon is required")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest,
			"Invalid search parameters: lat must be in [-90,90], lon in [-180,180], radius_km in (0,50], limit in [0,500]")
		return
	}

	pois, err := h.poiService.SearchPOIs(ctx, req)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound,
				"Place not found. Check the spelling or supply coordinates directly.")
			return
		}
		l.ErrorContext(ctx, "Failed to search POIs", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway,
			"POI providers are unavailable right now. Try again in a minute.")
		return
	}

	resp := searchResponse{POIs: pois}
	if len(pois) == 0 {
		resp.Hint = "No POIs found. Try increasing the search radius."
	}

	l.InfoContext(ctx, "POI search completed", slog.Int("count", len(pois)))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
