package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tripweaver/tripweaver/app/observability/metrics"
	"github.com/tripweaver/tripweaver/internal/types"
)

var ErrNotFound = errors.New("itinerary not found")

// PGXQuerier is the subset of pgxpool.Pool the repository needs. Satisfied
// by both a live pool and a pgxmock pool in tests.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	SaveItinerary(ctx context.Context, userID uuid.UUID, req types.SaveItineraryRequest) (*types.SavedItinerary, error)
	GetItinerary(ctx context.Context, userID, id uuid.UUID) (*types.SavedItinerary, error)
	GetItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error)
	DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error
}

type PostgresRepository struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresRepository(db PGXQuerier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresRepository) SaveItinerary(ctx context.Context, userID uuid.UUID, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	payload, err := json.Marshal(req.Itinerary)
	if err != nil {
		return nil, fmt.Errorf("save itinerary: marshal payload: %w", err)
	}

	saved := types.SavedItinerary{
		UserID:    userID,
		Title:     req.Title,
		Itinerary: req.Itinerary,
	}
	err = r.db.QueryRow(ctx,
		`INSERT INTO itineraries (user_id, title, payload)
         VALUES ($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		userID, req.Title, payload).
		Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("save itinerary: db insert failed: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) GetItinerary(ctx context.Context, userID, id uuid.UUID) (*types.SavedItinerary, error) {
	var saved types.SavedItinerary
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, payload, created_at, updated_at
         FROM itineraries WHERE id = $1 AND user_id = $2`,
		id, userID).
		Scan(&saved.ID, &saved.UserID, &saved.Title, &payload, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("get itinerary: query failed: %w", err)
	}

	if err := json.Unmarshal(payload, &saved.Itinerary); err != nil {
		return nil, fmt.Errorf("get itinerary: unmarshal payload: %w", err)
	}
	return &saved, nil
}

func (r *PostgresRepository) GetItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM itineraries WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list itineraries: count failed: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, payload, created_at, updated_at
         FROM itineraries WHERE user_id = $1
         ORDER BY created_at DESC
         LIMIT $2 OFFSET $3`,
		userID, pageSize, offset)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list itineraries: query failed: %w", err)
	}
	defer rows.Close()

	items := make([]types.SavedItinerary, 0, pageSize)
	for rows.Next() {
		var saved types.SavedItinerary
		var payload []byte
		if err := rows.Scan(&saved.ID, &saved.UserID, &saved.Title, &payload, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list itineraries: scan failed: %w", err)
		}
		if err := json.Unmarshal(payload, &saved.Itinerary); err != nil {
			return nil, fmt.Errorf("list itineraries: unmarshal payload: %w", err)
		}
		items = append(items, saved)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("list itineraries: rows failed: %w", err)
	}

	return &types.PaginatedItinerariesResponse{
		Itineraries:  items,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (r *PostgresRepository) DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("delete itinerary: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
