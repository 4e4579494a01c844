package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

const reviewsTable = "reviews"

// ReviewAdapter implements read access to the review log in Postgres.
// Reviews are written by the community feature set, never from here.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CountByFacility counts reviews for one facility
func (a *ReviewAdapter) CountByFacility(ctx context.Context, facilityID string) (int, error) {
	query, args, err := a.db.From(reviewsTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"facility_id": facilityID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build review count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, classifyError("failed to count reviews", err)
	}

	return count, nil
}

// AverageRatingByFacility returns the mean review rating for one facility,
// or nil when the facility has no reviews.
func (a *ReviewAdapter) AverageRatingByFacility(ctx context.Context, facilityID string) (*float64, error) {
	query, args, err := a.db.From(reviewsTable).
		Select(goqu.AVG("rating")).
		Where(goqu.Ex{"facility_id": facilityID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review average query", err)
	}

	var average sql.NullFloat64
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&average); err != nil {
		return nil, classifyError("failed to average reviews", err)
	}

	if !average.Valid {
		return nil, nil
	}
	return &average.Float64, nil
}

// ListByFacility retrieves reviews for one facility, newest first
func (a *ReviewAdapter) ListByFacility(ctx context.Context, facilityID string, limit, offset int) ([]*entities.Review, error) {
	ds := a.db.From(reviewsTable).
		Select("id", "facility_id", "user_id", "rating", "comment", "created_at").
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		var comment sql.NullString
		if err := rows.Scan(&review.ID, &review.FacilityID, &review.UserID, &review.Rating, &comment, &review.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		review.Comment = comment.String
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}
