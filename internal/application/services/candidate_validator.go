package services

import (
	"fmt"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// requiredCandidateFields lists the fields every candidate must carry, in
// validation order. The first missing field names the rejection.
var requiredCandidateFields = []string{"name", "type", "district", "address", "latitude", "longitude"}

// ValidateCandidate checks one candidate against the canonical facility
// schema and either returns an unpersisted facility or a validation error
// naming the first failing field. It performs no database access.
func ValidateCandidate(candidate entities.FacilityCandidate) (*entities.Facility, error) {
	for _, field := range requiredCandidateFields {
		if !candidate.Has(field) {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("missing required field %q", field))
		}
	}

	name := candidate.String("name")
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name must be non-empty text")
	}

	sportType := candidate.String("type")
	if !entities.IsValidSportType(sportType) {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown sport type %q", sportType))
	}

	district := candidate.String("district")
	if !entities.IsValidDistrict(district) {
		return nil, apperrors.NewValidationError("district", fmt.Sprintf("unknown district %q", district))
	}

	address := candidate.String("address")
	if address == "" {
		return nil, apperrors.NewValidationError("address", "address must be non-empty text")
	}

	latitude, ok := candidate.Float("latitude")
	if !ok || latitude < -90 || latitude > 90 {
		return nil, apperrors.NewValidationError("latitude", "latitude must be a number in [-90, 90]")
	}

	longitude, ok := candidate.Float("longitude")
	if !ok || longitude < -180 || longitude > 180 {
		return nil, apperrors.NewValidationError("longitude", "longitude must be a number in [-180, 180]")
	}

	facility := &entities.Facility{
		Name:      name,
		SportType: sportType,
		District:  district,
		Address:   address,
		Location: entities.Location{
			Latitude:  latitude,
			Longitude: longitude,
		},
		Description:       candidate.String("description"),
		OpenTime:          candidate.String("openTime"),
		CloseTime:         candidate.String("closeTime"),
		ContactPhone:      candidate.String("contactPhone"),
		ImageURL:          candidate.String("imageUrl"),
		AgeRestriction:    candidate.String("ageRestriction"),
		GenderSuitability: candidate.String("genderSuitability"),
		IsActive:          true,
	}

	if candidate.Has("courts") {
		courts, ok := candidate.Int("courts")
		if !ok || courts < 0 {
			return nil, apperrors.NewValidationError("courts", "courts must be a non-negative integer")
		}
		facility.Courts = &courts
	}

	if candidate.Has("amenities") {
		amenities, ok := candidate.StringSlice("amenities")
		if !ok {
			return nil, apperrors.NewValidationError("amenities", "amenities must be a sequence of text")
		}
		facility.Amenities = amenities
	}

	return facility, nil
}
