package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
)

// FacilityService handles business logic for facilities
type FacilityService struct {
	repo       repositories.FacilityRepository
	searchRepo repositories.FacilitySearchRepository
	eventBus   providers.EventBus
}

// NewFacilityService creates a new facility service
func NewFacilityService(
	repo repositories.FacilityRepository,
	searchRepo repositories.FacilitySearchRepository,
	eventBus providers.EventBus,
) *FacilityService {
	return &FacilityService{
		repo:       repo,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// Create assigns an identifier, persists the facility, indexes it for search
// and announces it on the event bus. Indexing and event publication are
// eventually consistent: their failure is logged, not surfaced.
func (s *FacilityService) Create(ctx context.Context, facility *entities.Facility) error {
	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	now := time.Now()
	if facility.CreatedAt.IsZero() {
		facility.CreatedAt = now
	}
	facility.UpdatedAt = now

	if err := s.repo.Create(ctx, facility); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, facility); err != nil {
			log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to index facility")
		}
	}

	if s.eventBus != nil {
		event := entities.NewFacilityEvent(facility.ID, entities.FacilityEventTypeImported, facility.Location, map[string]interface{}{
			"name":       facility.Name,
			"sport_type": facility.SportType,
			"district":   facility.District,
		})
		if err := s.eventBus.Publish(ctx, providers.EventChannelFacilityUpdates, event); err != nil {
			log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to publish facility event")
		}
	}

	return nil
}

// GetByID retrieves a facility by ID
func (s *FacilityService) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves facilities
func (s *FacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	return s.repo.List(ctx, filter)
}

// Search searches facilities using the search engine when available,
// falling back to a database list filtered by sport type and district.
func (s *FacilityService) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Facility, error) {
	if s.searchRepo != nil {
		return s.searchRepo.Search(ctx, params)
	}

	active := true
	return s.repo.List(ctx, repositories.FacilityFilter{
		SportType: params.SportType,
		District:  params.District,
		IsActive:  &active,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
}
