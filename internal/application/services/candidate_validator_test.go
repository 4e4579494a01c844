package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

func validCandidate() entities.FacilityCandidate {
	return entities.FacilityCandidate{
		"name":      "Victoria Park Courts",
		"type":      "basketball",
		"district":  "wan_chai",
		"address":   "1 Hing Fat St",
		"latitude":  22.28,
		"longitude": 114.19,
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, field, appErr.Field)
}

func TestValidateCandidate(t *testing.T) {
	t.Run("maps a complete candidate onto a facility", func(t *testing.T) {
		candidate := validCandidate()
		candidate["description"] = "Outdoor courts by the harbour"
		candidate["openTime"] = "06:00"
		candidate["closeTime"] = "23:00"
		candidate["contactPhone"] = "+852 2570 6186"
		candidate["courts"] = float64(6)
		candidate["amenities"] = []interface{}{"parking", "lights"}

		facility, err := ValidateCandidate(candidate)
		require.NoError(t, err)

		assert.Equal(t, "Victoria Park Courts", facility.Name)
		assert.Equal(t, "basketball", facility.SportType)
		assert.Equal(t, "wan_chai", facility.District)
		assert.Equal(t, "1 Hing Fat St", facility.Address)
		assert.InDelta(t, 22.28, facility.Location.Latitude, 0.0001)
		assert.InDelta(t, 114.19, facility.Location.Longitude, 0.0001)
		assert.Equal(t, "06:00", facility.OpenTime)
		assert.Equal(t, "23:00", facility.CloseTime)
		require.NotNil(t, facility.Courts)
		assert.Equal(t, 6, *facility.Courts)
		assert.Equal(t, []string{"parking", "lights"}, facility.Amenities)
		assert.True(t, facility.IsActive)
		assert.Empty(t, facility.ID)
		assert.Nil(t, facility.Rating)
		assert.Zero(t, facility.ReviewCount)
	})

	t.Run("accepts numeric strings for coordinates", func(t *testing.T) {
		candidate := validCandidate()
		candidate["latitude"] = "22.28"
		candidate["longitude"] = "114.19"

		facility, err := ValidateCandidate(candidate)
		require.NoError(t, err)
		assert.InDelta(t, 22.28, facility.Location.Latitude, 0.0001)
	})

	t.Run("rejects a missing required field", func(t *testing.T) {
		candidate := validCandidate()
		delete(candidate, "district")

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "district")
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		candidate := validCandidate()
		candidate["name"] = "   "

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "name")
	})

	t.Run("rejects an unknown sport type", func(t *testing.T) {
		candidate := validCandidate()
		candidate["type"] = "cricket"

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "type")
	})

	t.Run("rejects an unknown district", func(t *testing.T) {
		candidate := validCandidate()
		candidate["district"] = "atlantis"

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "district")
	})

	t.Run("rejects an out of range latitude", func(t *testing.T) {
		candidate := validCandidate()
		candidate["latitude"] = 91.0

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "latitude")
	})

	t.Run("rejects a non-numeric longitude", func(t *testing.T) {
		candidate := validCandidate()
		candidate["longitude"] = "east-ish"

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "longitude")
	})

	t.Run("rejects negative courts", func(t *testing.T) {
		candidate := validCandidate()
		candidate["courts"] = float64(-1)

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "courts")
	})

	t.Run("rejects fractional courts", func(t *testing.T) {
		candidate := validCandidate()
		candidate["courts"] = 2.5

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "courts")
	})

	t.Run("rejects non-text amenities", func(t *testing.T) {
		candidate := validCandidate()
		candidate["amenities"] = []interface{}{"parking", 7}

		_, err := ValidateCandidate(candidate)
		requireValidationField(t, err, "amenities")
	})
}
