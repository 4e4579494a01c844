package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
)

// StreamHandler serves live facility updates over Server-Sent Events.
// Clients follow one facility's rating refreshes or every update near a
// map position.
type StreamHandler struct {
	eventBus providers.EventBus
}

func NewStreamHandler(eventBus providers.EventBus) *StreamHandler {
	return &StreamHandler{eventBus: eventBus}
}

// StreamFacilityUpdates handles GET /api/v1/stream/facilities/{id}
func (h *StreamHandler) StreamFacilityUpdates(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	flusher, ok := prepareStream(w)
	if !ok {
		return
	}

	channel := providers.GetFacilityChannel(facilityID)
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to facility channel")
		return
	}

	sendStreamEvent(w, "connected", map[string]interface{}{
		"facility_id": facilityID,
		"timestamp":   time.Now(),
	})
	flusher.Flush()

	h.pump(r.Context(), w, flusher, eventChan, nil)
}

// StreamNearbyUpdates handles GET /api/v1/stream/facilities/nearby?lat=X&lng=Y&radius=Z
func (h *StreamHandler) StreamNearbyUpdates(w http.ResponseWriter, r *http.Request) {
	lat := parseFloatParam(r, "lat", math.NaN())
	lng := parseFloatParam(r, "lng", math.NaN())
	if math.IsNaN(lat) || math.IsNaN(lng) {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}
	radiusKm := parseFloatParam(r, "radius", 5)

	flusher, ok := prepareStream(w)
	if !ok {
		return
	}

	eventChan, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelFacilityUpdates)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to facility updates channel")
		return
	}

	sendStreamEvent(w, "connected", map[string]interface{}{
		"lat":       lat,
		"lng":       lng,
		"radius_km": radiusKm,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	h.pump(r.Context(), w, flusher, eventChan, func(event *entities.FacilityEvent) bool {
		return haversineDistance(lat, lng, event.Location.Latitude, event.Location.Longitude) <= radiusKm
	})
}

// pump forwards bus events to the client until the connection drops,
// heartbeating every 30 seconds so proxies keep the stream open.
func (h *StreamHandler) pump(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, eventChan <-chan *entities.FacilityEvent, keep func(*entities.FacilityEvent) bool) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sendStreamEvent(w, "heartbeat", map[string]interface{}{"timestamp": time.Now()})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil || (keep != nil && !keep(event)) {
				continue
			}
			sendStreamEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

func prepareStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return flusher, true
}

func sendStreamEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal stream event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// haversineDistance calculates the distance between two points in kilometers
func haversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
