package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

const facilitiesTable = "facilities"

// pq error code for a unique constraint violation. The facilities table
// carries a uniqueness constraint on (name, latitude, longitude) so that
// concurrent imports racing past the dedup pre-check still cannot insert
// the same facility twice.
const uniqueViolationCode = "23505"

var facilityColumns = []interface{}{
	"id", "name", "sport_type", "district", "address",
	"latitude", "longitude", "description", "open_time", "close_time",
	"contact_phone", "image_url", "courts", "amenities",
	"age_restriction", "gender_suitability", "rating", "review_count",
	"is_active", "created_at", "updated_at",
}

// FacilityAdapter implements the FacilityRepository interface in Postgres.
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	record := goqu.Record{
		"id":                 facility.ID,
		"name":               facility.Name,
		"sport_type":         facility.SportType,
		"district":           facility.District,
		"address":            facility.Address,
		"latitude":           facility.Location.Latitude,
		"longitude":          facility.Location.Longitude,
		"description":        nullString(facility.Description),
		"open_time":          nullString(facility.OpenTime),
		"close_time":         nullString(facility.CloseTime),
		"contact_phone":      nullString(facility.ContactPhone),
		"image_url":          nullString(facility.ImageURL),
		"courts":             nullIntPtr(facility.Courts),
		"amenities":          pq.Array(facility.Amenities),
		"age_restriction":    nullString(facility.AgeRestriction),
		"gender_suitability": nullString(facility.GenderSuitability),
		"rating":             nullFloatPtr(facility.Rating),
		"review_count":       facility.ReviewCount,
		"is_active":          facility.IsActive,
		"created_at":         facility.CreatedAt,
		"updated_at":         facility.UpdatedAt,
	}

	query, args, err := a.db.Insert(facilitiesTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classifyError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query, args, err := a.db.From(facilitiesTable).
		Select(facilityColumns...).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility select query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, classifyError("failed to get facility", err)
	}

	return facility, nil
}

// FindByIdentity retrieves a facility by its identity key. The match is
// exact: near-duplicates with slightly different coordinates are not caught.
func (a *FacilityAdapter) FindByIdentity(ctx context.Context, name string, latitude, longitude float64) (*entities.Facility, error) {
	query, args, err := a.db.From(facilitiesTable).
		Select(facilityColumns...).
		Where(goqu.Ex{"name": name, "latitude": latitude, "longitude": longitude}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility identity query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility %q at (%f, %f) not found", name, latitude, longitude))
	}
	if err != nil {
		return nil, classifyError("failed to find facility by identity", err)
	}

	return facility, nil
}

// List retrieves facilities with filters
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ds := a.db.From(facilitiesTable).Select(facilityColumns...)

	where := goqu.Ex{}
	if filter.SportType != "" {
		where["sport_type"] = filter.SportType
	}
	if filter.District != "" {
		where["district"] = filter.District
	}
	if filter.IsActive != nil {
		where["is_active"] = *filter.IsActive
	}
	if len(where) > 0 {
		ds = ds.Where(where)
	}

	ds = ds.Order(goqu.I("created_at").Desc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := []*entities.Facility{}
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}

// UpdateRatingAggregate writes the cached rating pair for one facility
func (a *FacilityAdapter) UpdateRatingAggregate(ctx context.Context, id string, rating *float64, reviewCount int) error {
	query, args, err := a.db.Update(facilitiesTable).
		Set(goqu.Record{
			"rating":       nullFloatPtr(rating),
			"review_count": reviewCount,
			"updated_at":   time.Now(),
		}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classifyError("failed to update facility rating", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}

	return nil
}

// BulkRecomputeAggregates recomputes the cached rating pair for every
// facility with at least one review in a single grouped statement.
func (a *FacilityAdapter) BulkRecomputeAggregates(ctx context.Context) (int64, error) {
	query := `
		UPDATE facilities f
		SET rating = ROUND(agg.avg_rating::numeric, 1),
			review_count = agg.review_count,
			updated_at = NOW()
		FROM (
			SELECT facility_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			GROUP BY facility_id
		) agg
		WHERE f.id = agg.facility_id
	`

	result, err := a.client.DB().ExecContext(ctx, query)
	if err != nil {
		return 0, classifyError("failed to bulk recompute rating aggregates", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to get rows affected", err)
	}

	return rowsAffected, nil
}

// ListIDsWithReviews returns the IDs of facilities that have reviews
func (a *FacilityAdapter) ListIDsWithReviews(ctx context.Context) ([]string, error) {
	rows, err := a.client.DB().QueryContext(ctx, `SELECT DISTINCT facility_id FROM reviews`)
	if err != nil {
		return nil, classifyError("failed to list facilities with reviews", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility id", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facility ids", err)
	}

	return ids, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var (
		description       sql.NullString
		openTime          sql.NullString
		closeTime         sql.NullString
		contactPhone      sql.NullString
		imageURL          sql.NullString
		courts            sql.NullInt64
		amenities         pq.StringArray
		ageRestriction    sql.NullString
		genderSuitability sql.NullString
		rating            sql.NullFloat64
	)

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facility.SportType,
		&facility.District,
		&facility.Address,
		&facility.Location.Latitude,
		&facility.Location.Longitude,
		&description,
		&openTime,
		&closeTime,
		&contactPhone,
		&imageURL,
		&courts,
		&amenities,
		&ageRestriction,
		&genderSuitability,
		&rating,
		&facility.ReviewCount,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Description = description.String
	facility.OpenTime = openTime.String
	facility.CloseTime = closeTime.String
	facility.ContactPhone = contactPhone.String
	facility.ImageURL = imageURL.String
	facility.AgeRestriction = ageRestriction.String
	facility.GenderSuitability = genderSuitability.String
	facility.Amenities = []string(amenities)
	if courts.Valid {
		value := int(courts.Int64)
		facility.Courts = &value
	}
	if rating.Valid {
		facility.Rating = &rating.Float64
	}

	return facility, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullIntPtr(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullFloatPtr(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

// classifyError maps driver errors onto the application taxonomy: unique
// constraint violations are conflicts, connection loss is an unavailable
// store, everything else is internal.
func classifyError(message string, err error) *apperrors.AppError {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return apperrors.NewConflictError(message + ": duplicate row")
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return apperrors.NewUnavailableError(message, err)
	}

	return apperrors.NewInternalError(message, err)
}
