package entities

import "time"

// Review is a user review of a facility. Reviews are owned by the community
// feature set; the ingestion and rating subsystem only ever reads them.
type Review struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RatingAggregate is the derived rating pair cached on a facility row.
// Rating is nil exactly when Count is zero.
type RatingAggregate struct {
	Rating *float64 `json:"rating"`
	Count  int      `json:"count"`
}
