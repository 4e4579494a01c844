package handlers

import (
	"net/http"

	"github.com/courtside/sportmap/backend/internal/application/services"
)

// RatingHandler exposes the rating aggregate maintenance endpoints.
type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// GetRating handles GET /api/v1/facilities/{id}/rating
func (h *RatingHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	aggregate, err := h.ratingService.ComputeRating(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, aggregate)
}

// RefreshRating handles POST /api/v1/facilities/{id}/rating/refresh
func (h *RatingHandler) RefreshRating(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	if err := h.ratingService.RefreshCache(r.Context(), facilityID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// RecomputeAll handles POST /api/v1/admin/ratings/recompute
func (h *RatingHandler) RecomputeAll(w http.ResponseWriter, r *http.Request) {
	if err := h.ratingService.RefreshAllCaches(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "recomputed"})
}
