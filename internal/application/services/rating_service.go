package services

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
)

// RatingService keeps each facility's cached rating pair consistent with its
// review log, on demand. The cache may be stale between a review mutation and
// the next refresh; consistency is recompute-on-demand only.
type RatingService struct {
	facilityRepo repositories.FacilityRepository
	reviewRepo   repositories.ReviewRepository
	eventBus     providers.EventBus
}

// NewRatingService creates a new rating service
func NewRatingService(
	facilityRepo repositories.FacilityRepository,
	reviewRepo repositories.ReviewRepository,
	eventBus providers.EventBus,
) *RatingService {
	return &RatingService{
		facilityRepo: facilityRepo,
		reviewRepo:   reviewRepo,
		eventBus:     eventBus,
	}
}

// ComputeRating computes a facility's rating aggregate from its reviews
// without writing anything. Zero reviews yields a nil rating.
func (s *RatingService) ComputeRating(ctx context.Context, facilityID string) (*entities.RatingAggregate, error) {
	count, err := s.reviewRepo.CountByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &entities.RatingAggregate{Rating: nil, Count: 0}, nil
	}

	average, err := s.reviewRepo.AverageRatingByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if average == nil {
		return &entities.RatingAggregate{Rating: nil, Count: 0}, nil
	}

	rounded := roundToOneDecimal(*average)
	return &entities.RatingAggregate{Rating: &rounded, Count: count}, nil
}

// RefreshCache recomputes one facility's rating aggregate and writes it back
// to the facility row. Idempotent: repeated calls with no intervening review
// changes store the same values.
func (s *RatingService) RefreshCache(ctx context.Context, facilityID string) error {
	aggregate, err := s.ComputeRating(ctx, facilityID)
	if err != nil {
		return err
	}

	if err := s.facilityRepo.UpdateRatingAggregate(ctx, facilityID, aggregate.Rating, aggregate.Count); err != nil {
		return err
	}

	if s.eventBus != nil {
		event := entities.NewFacilityEvent(facilityID, entities.FacilityEventTypeRatingRefreshed, entities.Location{}, map[string]interface{}{
			"rating":       aggregate.Rating,
			"review_count": aggregate.Count,
		})
		if err := s.eventBus.Publish(ctx, providers.GetFacilityChannel(facilityID), event); err != nil {
			log.Warn().Err(err).Str("facility_id", facilityID).Msg("failed to publish rating event")
		}
	}

	return nil
}

// RefreshAllCaches recomputes the rating aggregate for every facility with
// at least one review. The fast path is a single grouped statement; when it
// fails the service falls back to a per-facility loop that logs and
// continues so one bad facility cannot stall the rest.
func (s *RatingService) RefreshAllCaches(ctx context.Context) error {
	updated, err := s.facilityRepo.BulkRecomputeAggregates(ctx)
	if err == nil {
		log.Info().Int64("facilities", updated).Msg("bulk rating recompute finished")
		return nil
	}

	log.Warn().Err(err).Msg("grouped rating recompute failed, falling back to per-facility refresh")

	ids, listErr := s.facilityRepo.ListIDsWithReviews(ctx)
	if listErr != nil {
		return listErr
	}

	refreshed := 0
	for _, id := range ids {
		if refreshErr := s.RefreshCache(ctx, id); refreshErr != nil {
			log.Warn().Err(refreshErr).Str("facility_id", id).Msg("failed to refresh rating cache")
			continue
		}
		refreshed++
	}

	log.Info().Int("facilities", refreshed).Msg("per-facility rating recompute finished")
	return nil
}

func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
