package poi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/types"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchPOIs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]types.POI, error) {
	args := m.Called(ctx, lat, lon, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.POI), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Geocode(ctx context.Context, place string) (float64, float64, error) {
	args := m.Called(ctx, place)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

func fixture() []types.POI {
	return []types.POI{{
		Name:              "Union Station",
		Category:          types.CategoryNature,
		Lat:               39.7392,
		Lon:               -104.9903,
		AvgCost:           types.DefaultAvgCost,
		VisitDurationMins: types.DefaultVisitDurationMins,
		Rating:            types.DefaultRating,
	}}
}

func TestSearchPOIsByCoordinates(t *testing.T) {
	metrics.InitAppMetrics()

	fetcher := new(MockFetcher)
	fetcher.On("FetchPOIs", mock.Anything, 39.73, -104.99, 8.0, 120).Return(fixture(), nil).Once()

	svc := NewServiceImpl(fetcher, new(MockResolver), time.Minute, testLogger())

	req := types.POISearchRequest{Lat: 39.73, Lon: -104.99, RadiusKm: 8.0, Limit: 120}
	pois, err := svc.SearchPOIs(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	fetcher.AssertExpectations(t)

	// Second identical call is served from cache: Once() above would fail
	// if the fetcher were hit again.
	pois, err = svc.SearchPOIs(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, pois, 1)
	fetcher.AssertExpectations(t)
}

func TestSearchPOIsGeocodesPlace(t *testing.T) {
	metrics.InitAppMetrics()

	resolver := new(MockResolver)
	resolver.On("Geocode", mock.Anything, "Denver").Return(39.7392, -104.9903, nil)

	fetcher := new(MockFetcher)
	fetcher.On("FetchPOIs", mock.Anything, 39.7392, -104.9903, 8.0, 120).Return(fixture(), nil)

	svc := NewServiceImpl(fetcher, resolver, time.Minute, testLogger())

	pois, err := svc.SearchPOIs(context.Background(), types.POISearchRequest{
		Place: "Denver", RadiusKm: 8.0, Limit: 120,
	})
	require.NoError(t, err)
	assert.Len(t, pois, 1)
	resolver.AssertExpectations(t)
	fetcher.AssertExpectations(t)
}

func TestSearchPOIsGeocodeFailure(t *testing.T) {
	metrics.InitAppMetrics()

	resolver := new(MockResolver)
	resolver.On("Geocode", mock.Anything, "Atlantis").Return(0.0, 0.0, ErrPlaceNotFound)

	svc := NewServiceImpl(new(MockFetcher), resolver, time.Minute, testLogger())

	_, err := svc.SearchPOIs(context.Background(), types.POISearchRequest{Place: "Atlantis", RadiusKm: 8.0})
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}
