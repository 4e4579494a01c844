package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
)

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	facilityService *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityService *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{
		facilityService: facilityService,
	}
}

// GetFacility handles GET /api/v1/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.facilityService.GetByID(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// ListFacilities handles GET /api/v1/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	filter := repositories.FacilityFilter{
		SportType: strings.TrimSpace(r.URL.Query().Get("type")),
		District:  strings.TrimSpace(r.URL.Query().Get("district")),
		Limit:     parseIntParam(r, "limit", 30),
		Offset:    parseIntParam(r, "offset", 0),
	}

	facilities, err := h.facilityService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// SearchFacilities handles GET /api/v1/facilities/search
func (h *FacilityHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := repositories.SearchParams{
		Query:     strings.TrimSpace(query.Get("q")),
		SportType: strings.TrimSpace(query.Get("type")),
		District:  strings.TrimSpace(query.Get("district")),
		Latitude:  parseFloatParam(r, "lat", 0),
		Longitude: parseFloatParam(r, "lng", 0),
		RadiusKm:  parseFloatParam(r, "radius", 0),
		Limit:     parseIntParam(r, "limit", 30),
		Offset:    parseIntParam(r, "offset", 0),
	}

	facilities, err := h.facilityService.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func parseFloatParam(r *http.Request, name string, fallback float64) float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
