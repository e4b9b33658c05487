package poi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SearchPOIs(ctx context.Context, req types.POISearchRequest) ([]types.POI, error) {
	args := m.Called(ctx, req)
	pois, _ := args.Get(0).([]types.POI)
	return pois, args.Error(1)
}

func searchRequest(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	svc := new(MockService)
	svc.On("SearchPOIs", mock.Anything, mock.Anything).
		Return([]types.POI{{Name: "Union Station"}}, nil).Maybe()

	h := NewHandler(svc, testLogger())
	req := httptest.NewRequest(http.MethodGet, "/poi/search?"+query, nil)
	rec := httptest.NewRecorder()
	h.SearchPOIs(rec, req)
	return rec
}

func TestSearchPOIsHandlerValidation(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid coordinates", "lat=39.73&lon=-104.99", http.StatusOK},
		{"latitude out of range", "lat=95&lon=-104.99", http.StatusBadRequest},
		{"longitude out of range", "lat=39.73&lon=200", http.StatusBadRequest},
		{"radius too large", "lat=39.73&lon=-104.99&radius_km=80", http.StatusBadRequest},
		{"negative radius", "lat=39.73&lon=-104.99&radius_km=-1", http.StatusBadRequest},
		{"limit too large", "lat=39.73&lon=-104.99&limit=9999", http.StatusBadRequest},
		{"missing place and coordinates", "radius_km=5", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := searchRequest(t, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSearchPOIsHandlerSuccess(t *testing.T) {
	rec := searchRequest(t, "lat=39.73&lon=-104.99&radius_km=5&limit=50")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Union Station")
}
