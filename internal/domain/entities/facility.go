package entities

import (
	"time"
)

// Facility represents a sports facility in the system
type Facility struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	SportType         string    `json:"sport_type" db:"sport_type"`
	District          string    `json:"district" db:"district"`
	Address           string    `json:"address" db:"address"`
	Location          Location  `json:"location" db:"-"`
	Description       string    `json:"description,omitempty" db:"description"`
	OpenTime          string    `json:"open_time,omitempty" db:"open_time"`
	CloseTime         string    `json:"close_time,omitempty" db:"close_time"`
	ContactPhone      string    `json:"contact_phone,omitempty" db:"contact_phone"`
	ImageURL          string    `json:"image_url,omitempty" db:"image_url"`
	Courts            *int      `json:"courts,omitempty" db:"courts"`
	Amenities         []string  `json:"amenities,omitempty" db:"-"`
	AgeRestriction    string    `json:"age_restriction,omitempty" db:"age_restriction"`
	GenderSuitability string    `json:"gender_suitability,omitempty" db:"gender_suitability"`
	Rating            *float64  `json:"rating" db:"rating"`
	ReviewCount       int       `json:"review_count" db:"review_count"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// SportTypeOther is the fallback sport type applied by source adapters
// when a record carries no usable type.
const SportTypeOther = "other"

// DistrictCentral is the fallback district applied by source adapters.
const DistrictCentral = "central"

var sportTypes = map[string]struct{}{
	"basketball":   {},
	"soccer":       {},
	"tennis":       {},
	"badminton":    {},
	"volleyball":   {},
	"table_tennis": {},
	"squash":       {},
	"handball":     {},
	"swimming":     {},
	"fitness":      {},
	SportTypeOther: {},
}

var districts = map[string]struct{}{
	DistrictCentral: {},
	"eastern":       {},
	"southern":      {},
	"western":       {},
	"wan_chai":      {},
	"kowloon_city":  {},
	"kwun_tong":     {},
	"sham_shui_po":  {},
	"wong_tai_sin":  {},
	"yau_tsim_mong": {},
	"islands":       {},
	"kwai_tsing":    {},
	"north":         {},
	"sai_kung":      {},
	"sha_tin":       {},
	"tai_po":        {},
	"tsuen_wan":     {},
	"tuen_mun":      {},
	"yuen_long":     {},
}

// IsValidSportType reports whether value belongs to the sport type enumeration.
func IsValidSportType(value string) bool {
	_, ok := sportTypes[value]
	return ok
}

// IsValidDistrict reports whether value belongs to the district enumeration.
func IsValidDistrict(value string) bool {
	_, ok := districts[value]
	return ok
}
