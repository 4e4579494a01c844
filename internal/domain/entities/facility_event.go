package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// FacilityEventType represents the type of facility event
type FacilityEventType string

const (
	FacilityEventTypeImported        FacilityEventType = "facility_imported"
	FacilityEventTypeRatingRefreshed FacilityEventType = "rating_refreshed"
	FacilityEventTypeDeactivated     FacilityEventType = "facility_deactivated"
)

// FacilityEvent represents an update event for a facility, published on the
// event bus so caches and search indexes can react.
type FacilityEvent struct {
	ID            string                 `json:"id"`
	FacilityID    string                 `json:"facility_id"`
	EventType     FacilityEventType      `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	Location      Location               `json:"location"`
	ChangedFields map[string]interface{} `json:"changed_fields"`
}

// NewFacilityEvent creates a new facility event
func NewFacilityEvent(facilityID string, eventType FacilityEventType, location Location, changedFields map[string]interface{}) *FacilityEvent {
	return &FacilityEvent{
		ID:            generateEventID(),
		FacilityID:    facilityID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		Location:      location,
		ChangedFields: changedFields,
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
