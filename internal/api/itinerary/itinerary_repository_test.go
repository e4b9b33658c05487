package itinerary

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testItinerary() types.Itinerary {
	return types.Itinerary{
		Days: []types.Day{{
			Day: 1,
			Items: []types.POI{
				{Name: "Union Station", Category: "nature", Lat: 39.7539, Lon: -105.0002, VisitDurationMins: 60, Rating: 4.6},
			},
			Timeline: []types.TimelineEntry{
				{Name: "Union Station", Category: "nature", StartMin: 600, EndMin: 660, Lat: 39.7539, Lon: -105.0002},
			},
			DayTimeMins: 60,
		}},
		TotalTimeMins:   60,
		RemainingBudget: 100,
	}
}

func TestSaveItinerary(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	itineraryID := uuid.New()
	now := time.Now()

	mockPool.ExpectQuery(`INSERT INTO itineraries`).
		WithArgs(userID, "Denver Weekend", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(itineraryID, now, now))

	saved, err := repo.SaveItinerary(context.Background(), userID, types.SaveItineraryRequest{
		Title:     "Denver Weekend",
		Itinerary: testItinerary(),
	})
	require.NoError(t, err)

	assert.Equal(t, itineraryID, saved.ID)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "Denver Weekend", saved.Title)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetItinerary(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	itineraryID := uuid.New()
	now := time.Now()

	payload, err := json.Marshal(testItinerary())
	require.NoError(t, err)

	mockPool.ExpectQuery(`SELECT id, user_id, title, payload, created_at, updated_at`).
		WithArgs(itineraryID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "payload", "created_at", "updated_at"}).
			AddRow(itineraryID, userID, "Denver Weekend", payload, now, now))

	saved, err := repo.GetItinerary(context.Background(), userID, itineraryID)
	require.NoError(t, err)

	assert.Equal(t, "Denver Weekend", saved.Title)
	require.Len(t, saved.Itinerary.Days, 1)
	assert.Equal(t, "Union Station", saved.Itinerary.Days[0].Items[0].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetItineraryNotFound(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	itineraryID := uuid.New()

	mockPool.ExpectQuery(`SELECT id, user_id, title, payload, created_at, updated_at`).
		WithArgs(itineraryID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "payload", "created_at", "updated_at"}))

	_, err = repo.GetItinerary(context.Background(), userID, itineraryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetItineraries(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	now := time.Now()

	payload, err := json.Marshal(testItinerary())
	require.NoError(t, err)

	mockPool.ExpectQuery(`SELECT count\(\*\) FROM itineraries`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	mockPool.ExpectQuery(`SELECT id, user_id, title, payload, created_at, updated_at`).
		WithArgs(userID, 10, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "payload", "created_at", "updated_at"}).
			AddRow(uuid.New(), userID, "Trip A", payload, now, now).
			AddRow(uuid.New(), userID, "Trip B", payload, now, now))

	resp, err := repo.GetItineraries(context.Background(), userID, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 12, resp.TotalRecords)
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Itineraries, 2)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteItinerary(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	itineraryID := uuid.New()

	mockPool.ExpectExec(`DELETE FROM itineraries`).
		WithArgs(itineraryID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteItinerary(context.Background(), userID, itineraryID))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteItineraryNotFound(t *testing.T) {
	metrics.InitAppMetrics()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPostgresRepository(mockPool, testLogger())
	userID := uuid.New()
	itineraryID := uuid.New()

	mockPool.ExpectExec(`DELETE FROM itineraries`).
		WithArgs(itineraryID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.DeleteItinerary(context.Background(), userID, itineraryID)
	assert.ErrorIs(t, err, ErrNotFound)
}
