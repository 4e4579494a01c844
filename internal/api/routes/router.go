package routes

import (
	"net/http"

	"github.com/courtside/sportmap/backend/internal/api/handlers"
	"github.com/courtside/sportmap/backend/internal/api/middleware"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	facilityHandler *handlers.FacilityHandler

	ratingHandler *handlers.RatingHandler

	importHandler *handlers.ImportHandler

	streamHandler *handlers.StreamHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router

func NewRouter(
	facilityHandler *handlers.FacilityHandler,
	ratingHandler *handlers.RatingHandler,
	importHandler *handlers.ImportHandler,
	streamHandler *handlers.StreamHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		facilityHandler: facilityHandler,
		ratingHandler:   ratingHandler,
		importHandler:   importHandler,
		streamHandler:   streamHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facility endpoints

	r.mux.HandleFunc("GET /api/v1/facilities", r.facilityHandler.ListFacilities)

	r.mux.HandleFunc("GET /api/v1/facilities/search", r.facilityHandler.SearchFacilities)

	r.mux.HandleFunc("GET /api/v1/facilities/{id}", r.facilityHandler.GetFacility)

	// Rating endpoints

	r.mux.HandleFunc("GET /api/v1/facilities/{id}/rating", r.ratingHandler.GetRating)

	r.mux.HandleFunc("POST /api/v1/facilities/{id}/rating/refresh", r.ratingHandler.RefreshRating)

	// Live update streams over SSE
	if r.streamHandler != nil {
		r.mux.HandleFunc("GET /api/v1/stream/facilities/nearby", r.streamHandler.StreamNearbyUpdates)
		r.mux.HandleFunc("GET /api/v1/stream/facilities/{id}", r.streamHandler.StreamFacilityUpdates)
	}

	// Admin endpoints (bulk ingestion and aggregate maintenance)

	if r.importHandler != nil {
		r.mux.HandleFunc("POST /api/v1/admin/facilities/import", r.importHandler.ImportFacilities)
	}

	r.mux.HandleFunc("POST /api/v1/admin/ratings/recompute", r.ratingHandler.RecomputeAll)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so every response gets CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}
