package repositories

import (
	"context"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
)

// FacilityRepository defines the interface for facility data operations
type FacilityRepository interface {
	// Create persists a new facility
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	// FindByIdentity retrieves a facility by its identity key
	// (name + exact coordinates). Returns a not-found error when absent.
	FindByIdentity(ctx context.Context, name string, latitude, longitude float64) (*entities.Facility, error)

	// List retrieves facilities with filters
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)

	// UpdateRatingAggregate writes the cached rating pair for one facility.
	// rating must be nil exactly when reviewCount is zero.
	UpdateRatingAggregate(ctx context.Context, id string, rating *float64, reviewCount int) error

	// BulkRecomputeAggregates recomputes the cached rating pair for every
	// facility with at least one review using a single grouped statement.
	BulkRecomputeAggregates(ctx context.Context) (int64, error)

	// ListIDsWithReviews returns the IDs of facilities that have reviews.
	ListIDsWithReviews(ctx context.Context) ([]string, error)
}

// FacilitySearchRepository defines the interface for facility search
// indexing (e.g. Typesense).
type FacilitySearchRepository interface {
	// Search searches facilities
	Search(ctx context.Context, params SearchParams) ([]*entities.Facility, error)

	// Index indexes a facility
	Index(ctx context.Context, facility *entities.Facility) error

	// Delete removes a facility from the index
	Delete(ctx context.Context, id string) error
}

// FacilityFilter defines filters for listing facilities
type FacilityFilter struct {
	SportType string
	District  string
	IsActive  *bool
	Limit     int
	Offset    int
}

// SearchParams defines parameters for facility search
type SearchParams struct {
	Query     string
	SportType string
	District  string
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Limit     int
	Offset    int
}
