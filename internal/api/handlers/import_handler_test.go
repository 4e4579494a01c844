package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/sportmap/backend/internal/api/handlers"
	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// memoryFacilityRepo backs handler tests with an in-memory store keyed by
// the facility identity triple.
type memoryFacilityRepo struct {
	facilities map[string]*entities.Facility
}

func newMemoryFacilityRepo() *memoryFacilityRepo {
	return &memoryFacilityRepo{facilities: make(map[string]*entities.Facility)}
}

func identity(name string, latitude, longitude float64) string {
	return fmt.Sprintf("%s|%.6f|%.6f", name, latitude, longitude)
}

func (r *memoryFacilityRepo) Create(ctx context.Context, facility *entities.Facility) error {
	k := identity(facility.Name, facility.Location.Latitude, facility.Location.Longitude)
	if _, exists := r.facilities[k]; exists {
		return apperrors.NewConflictError("duplicate row")
	}
	r.facilities[k] = facility
	return nil
}

func (r *memoryFacilityRepo) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	for _, facility := range r.facilities {
		if facility.ID == id {
			return facility, nil
		}
	}
	return nil, apperrors.NewNotFoundError("facility not found")
}

func (r *memoryFacilityRepo) FindByIdentity(ctx context.Context, name string, latitude, longitude float64) (*entities.Facility, error) {
	if facility, exists := r.facilities[identity(name, latitude, longitude)]; exists {
		return facility, nil
	}
	return nil, apperrors.NewNotFoundError("facility not found")
}

func (r *memoryFacilityRepo) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	facilities := make([]*entities.Facility, 0, len(r.facilities))
	for _, facility := range r.facilities {
		facilities = append(facilities, facility)
	}
	return facilities, nil
}

func (r *memoryFacilityRepo) UpdateRatingAggregate(ctx context.Context, id string, rating *float64, reviewCount int) error {
	return nil
}

func (r *memoryFacilityRepo) BulkRecomputeAggregates(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *memoryFacilityRepo) ListIDsWithReviews(ctx context.Context) ([]string, error) {
	return nil, nil
}

func newImportHandler() *handlers.ImportHandler {
	repo := newMemoryFacilityRepo()
	facilityService := services.NewFacilityService(repo, nil, nil)
	importService := services.NewImportService(repo, facilityService)
	return handlers.NewImportHandler(importService, nil, nil, 0, 0)
}

func TestImportFacilities(t *testing.T) {
	t.Run("imports a JSON payload and reports the summary", func(t *testing.T) {
		handler := newImportHandler()
		payload := `[{"name": "Victoria Park Courts", "type": "basketball", "district": "wan_chai",
			"address": "1 Hing Fat St", "latitude": 22.28, "longitude": 114.19}]`

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/facilities/import?format=json", strings.NewReader(payload))
		rec := httptest.NewRecorder()

		handler.ImportFacilities(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var summary map[string]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, 1, summary["imported_count"])
		assert.Equal(t, 0, summary["error_count"])
		assert.Equal(t, 0, summary["duplicates_skipped"])
	})

	t.Run("rejects a missing format parameter", func(t *testing.T) {
		handler := newImportHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/facilities/import", strings.NewReader("[]"))
		rec := httptest.NewRecorder()

		handler.ImportFacilities(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an unsupported format", func(t *testing.T) {
		handler := newImportHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/facilities/import?format=xml", strings.NewReader("<x/>"))
		rec := httptest.NewRecorder()

		handler.ImportFacilities(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed payload", func(t *testing.T) {
		handler := newImportHandler()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/facilities/import?format=json", strings.NewReader(`{"not": "an array"}`))
		rec := httptest.NewRecorder()

		handler.ImportFacilities(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("re-importing the same payload skips duplicates", func(t *testing.T) {
		handler := newImportHandler()
		payload := `[{"name": "Victoria Park Courts", "type": "basketball", "district": "wan_chai",
			"address": "1 Hing Fat St", "latitude": 22.28, "longitude": 114.19}]`

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/facilities/import?format=json", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			handler.ImportFacilities(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var summary map[string]int
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
			if i == 0 {
				assert.Equal(t, 1, summary["imported_count"])
			} else {
				assert.Equal(t, 0, summary["imported_count"])
				assert.Equal(t, 1, summary["duplicates_skipped"])
			}
		}
	})
}
