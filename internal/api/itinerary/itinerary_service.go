package itinerary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tripweaver/tripweaver/internal/types"
)

const defaultPageSize = 10
const maxPageSize = 50

var _ Service = (*ServiceImpl)(nil)

// Service manages a user's saved itineraries.
type Service interface {
	SaveItinerary(ctx context.Context, userID uuid.UUID, req types.SaveItineraryRequest) (*types.SavedItinerary, error)
	GetItinerary(ctx context.Context, userID, id uuid.UUID) (*types.SavedItinerary, error)
	GetItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error)
	DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) SaveItinerary(ctx context.Context, userID uuid.UUID, req types.SaveItineraryRequest) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "SaveItinerary")
	defer span.End()

	saved, err := s.repo.SaveItinerary(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Itinerary saved",
		slog.String("itinerary_id", saved.ID.String()),
		slog.String("user_id", userID.String()),
	)
	return saved, nil
}

func (s *ServiceImpl) GetItinerary(ctx context.Context, userID, id uuid.UUID) (*types.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItinerary")
	defer span.End()

	return s.repo.GetItinerary(ctx, userID, id)
}

// GetItineraries normalizes pagination before hitting the repository:
// page < 1 becomes 1, pageSize is clamped to [1, maxPageSize].
func (s *ServiceImpl) GetItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItineraries")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize))

	return s.repo.GetItineraries(ctx, userID, page, pageSize)
}

func (s *ServiceImpl) DeleteItinerary(ctx context.Context, userID, id uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "DeleteItinerary")
	defer span.End()

	if err := s.repo.DeleteItinerary(ctx, userID, id); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.InfoContext(ctx, "Itinerary deleted",
		slog.String("itinerary_id", id.String()),
		slog.String("user_id", userID.String()),
	)
	return nil
}
