package poi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the acquisition collaborator: it supplies curated candidate
// POI lists for the planner.
type Service interface {
	SearchPOIs(ctx context.Context, req types.POISearchRequest) ([]types.POI, error)
}

// Fetcher is the upstream POI source (Overpass in production).
type Fetcher interface {
	FetchPOIs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]types.POI, error)
}

// PlaceResolver turns a place name into coordinates.
type PlaceResolver interface {
	Geocode(ctx context.Context, place string) (lat, lon float64, err error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	fetcher  Fetcher
	geocoder PlaceResolver
	cache    *cache.Cache
}

func NewServiceImpl(fetcher Fetcher, geocoder PlaceResolver, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &ServiceImpl{
		logger:   logger,
		fetcher:  fetcher,
		geocoder: geocoder,
		cache:    cache.New(cacheTTL, 10*time.Minute),
	}
}

// SearchPOIs geocodes the place when one is given, then fetches candidates
// around the resulting coordinate. Results are cached per rounded
// coordinate + radius + limit.
func (s *ServiceImpl) SearchPOIs(ctx context.Context, req types.POISearchRequest) ([]types.POI, error) {
	ctx, span := otel.Tracer("POIService").Start(ctx, "SearchPOIs", trace.WithAttributes(
		attribute.String("poi.place", req.Place),
		attribute.Float64("poi.radius_km", req.RadiusKm),
	))
	defer span.End()

	l := s.logger.With(slog.String("service", "SearchPOIs"))

	lat, lon := req.Lat, req.Lon
	if req.Place != "" {
		var err error
		lat, lon, err = s.geocoder.Geocode(ctx, req.Place)
		if err != nil {
			l.ErrorContext(ctx, "Geocoding failed", slog.String("place", req.Place), slog.Any("error", err))
			span.RecordError(err)
			return nil, err
		}
		span.SetAttributes(attribute.Float64("poi.lat", lat), attribute.Float64("poi.lon", lon))
	}

	cacheKey := fmt.Sprintf("pois:%.4f:%.4f:%.1f:%d", lat, lon, req.RadiusKm, req.Limit)
	if cached, found := s.cache.Get(cacheKey); found {
		l.DebugContext(ctx, "POI cache hit", slog.String("cache_key", cacheKey))
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.POI), nil
	}

	start := time.Now()
	metrics.Get().OverpassFetchesTotal.Add(ctx, 1)

	pois, err := s.fetcher.FetchPOIs(ctx, lat, lon, req.RadiusKm, req.Limit)
	metrics.Get().OverpassFetchDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().OverpassFetchErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "POI fetch failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "POI fetch failed")
		return nil, fmt.Errorf("failed to fetch POIs: %w", err)
	}

	s.cache.Set(cacheKey, pois, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("poi.count", len(pois)))
	span.SetStatus(codes.Ok, "POIs fetched")
	return pois, nil
}
