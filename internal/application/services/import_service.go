package services

import (
	"context"

	"github.com/courtside/sportmap/backend/internal/adapters/sources"
	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// ImportSummary is the per-batch outcome returned to the caller.
type ImportSummary struct {
	Imported          int `json:"imported_count"`
	Errors            int `json:"error_count"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	DroppedFeatures   int `json:"dropped_features"`
}

// ImportService drives a batch of raw facility records through parsing,
// validation, deduplication and persistence. Records are processed in input
// order with per-record isolation: one bad record never aborts the batch and
// never rolls back earlier inserts. Only a malformed top-level payload or a
// lost store stops the run.
type ImportService struct {
	facilityRepo    repositories.FacilityRepository
	facilityService *FacilityService
}

// NewImportService creates a new import service
func NewImportService(facilityRepo repositories.FacilityRepository, facilityService *FacilityService) *ImportService {
	return &ImportService{
		facilityRepo:    facilityRepo,
		facilityService: facilityService,
	}
}

// ImportFromFormat parses raw according to the declared format and imports
// the resulting candidates. A structurally wrong payload fails before any
// insertion.
func (s *ImportService) ImportFromFormat(ctx context.Context, format string, raw []byte) (*ImportSummary, error) {
	source, err := sources.ForFormat(format)
	if err != nil {
		return nil, err
	}

	candidates, dropped, err := source.Parse(raw)
	if err != nil {
		return nil, err
	}

	summary, err := s.ImportCandidates(ctx, candidates)
	if summary != nil {
		summary.DroppedFeatures = dropped
	}
	return summary, err
}

// ImportCandidates imports a batch of candidates. The returned summary is
// valid even when err is non-nil: a store outage mid-batch keeps the counts
// accumulated up to that point.
func (s *ImportService) ImportCandidates(ctx context.Context, candidates []entities.FacilityCandidate) (*ImportSummary, error) {
	logger := observability.LoggerFromContext(ctx)
	summary := &ImportSummary{}

	for i, candidate := range candidates {
		facility, err := ValidateCandidate(candidate)
		if err != nil {
			summary.Errors++
			logger.Debug().Err(err).Int("record", i).Msg("import record rejected by validation")
			continue
		}

		_, err = s.facilityRepo.FindByIdentity(ctx, facility.Name, facility.Location.Latitude, facility.Location.Longitude)
		if err == nil {
			summary.DuplicatesSkipped++
			continue
		}
		if !apperrors.IsNotFound(err) {
			if apperrors.IsUnavailable(err) {
				return summary, err
			}
			summary.Errors++
			logger.Warn().Err(err).Int("record", i).Msg("dedup check failed for import record")
			continue
		}

		if err := s.facilityService.Create(ctx, facility); err != nil {
			// The table's uniqueness constraint catches concurrent imports
			// racing past the pre-check; a conflict is a duplicate, not an error.
			if apperrors.IsConflict(err) {
				summary.DuplicatesSkipped++
				continue
			}
			if apperrors.IsUnavailable(err) {
				return summary, err
			}
			summary.Errors++
			logger.Warn().Err(err).Int("record", i).Msg("failed to persist import record")
			continue
		}

		summary.Imported++
	}

	logger.Info().
		Int("imported", summary.Imported).
		Int("errors", summary.Errors).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Msg("facility import batch finished")

	return summary, nil
}
