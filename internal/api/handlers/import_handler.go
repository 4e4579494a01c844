package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
)

// ImportHandler accepts facility payloads in one of the supported formats
// and feeds them through the import pipeline.
type ImportHandler struct {
	importService  *services.ImportService
	redisClient    *redislib.Client
	metrics        *observability.Metrics
	maxPayload     int64
	idempotencyTTL time.Duration
}

func NewImportHandler(
	importService *services.ImportService,
	redisClient *redislib.Client,
	metrics *observability.Metrics,
	maxPayload int64,
	idempotencyTTL time.Duration,
) *ImportHandler {
	if maxPayload <= 0 {
		maxPayload = 10 << 20
	}
	if idempotencyTTL <= 0 {
		idempotencyTTL = 24 * time.Hour
	}
	return &ImportHandler{
		importService:  importService,
		redisClient:    redisClient,
		metrics:        metrics,
		maxPayload:     maxPayload,
		idempotencyTTL: idempotencyTTL,
	}
}

// ImportFacilities handles POST /api/v1/admin/facilities/import?format=json|geojson|csv
func (h *ImportHandler) ImportFacilities(w http.ResponseWriter, r *http.Request) {
	if h.importService == nil {
		respondWithError(w, http.StatusServiceUnavailable, "import service not configured")
		return
	}

	if duplicate, key := h.isDuplicate(r.Context(), r); duplicate {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":          "duplicate",
			"idempotency_key": key,
		})
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		respondWithError(w, http.StatusBadRequest, "format query parameter is required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxPayload))
	if err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "payload too large or unreadable")
		return
	}

	summary, err := h.importService.ImportFromFormat(r.Context(), format, body)
	if err != nil {
		if summary != nil {
			// A partial summary means ingestion was aborted mid-batch; report
			// both what completed and why it stopped.
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"summary": summary,
				"error":   err.Error(),
			})
			return
		}
		respondWithAppError(w, err)
		return
	}

	if h.metrics != nil {
		observability.RecordImportMetrics(r.Context(), h.metrics, format, summary.Imported, summary.Errors)
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *ImportHandler) isDuplicate(ctx context.Context, r *http.Request) (bool, string) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		key = strings.TrimSpace(r.Header.Get("X-Idempotency-Key"))
	}
	if key == "" || h.redisClient == nil {
		return false, ""
	}

	redisKey := "facility_import_idem:" + key
	ok, err := h.redisClient.SetNX(ctx, redisKey, time.Now().UTC().Format(time.RFC3339Nano), h.idempotencyTTL).Result()
	if err != nil {
		log.Warn().Err(err).Msg("idempotency check failed")
		return false, key
	}
	if !ok {
		return true, key
	}
	return false, key
}
