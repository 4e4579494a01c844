package repositories

import (
	"context"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
)

// ReviewRepository exposes read access to the review log. Reviews are
// written elsewhere; the rating aggregator only reads them.
type ReviewRepository interface {
	// CountByFacility counts reviews for one facility
	CountByFacility(ctx context.Context, facilityID string) (int, error)

	// AverageRatingByFacility returns the mean review rating for one
	// facility, or nil when the facility has no reviews.
	AverageRatingByFacility(ctx context.Context, facilityID string) (*float64, error)

	// ListByFacility retrieves reviews for one facility, newest first
	ListByFacility(ctx context.Context, facilityID string, limit, offset int) ([]*entities.Review, error)
}
