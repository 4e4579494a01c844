package sources

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// GeoJSONSource parses a GeoJSON FeatureCollection of Point features.
// Features with non-Point geometry or an unusable coordinate pair are logged
// and dropped rather than failing the batch; partial success is the norm for
// this format.
type GeoJSONSource struct{}

type geoFeatureCollection struct {
	Type     string        `json:"type"`
	Features []*geoFeature `json:"features"`
}

type geoFeature struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Format returns the format identifier
func (s *GeoJSONSource) Format() string {
	return FormatGeoJSON
}

// Parse decodes raw into candidates, returning the number of dropped features.
func (s *GeoJSONSource) Parse(raw []byte) ([]entities.FacilityCandidate, int, error) {
	var collection geoFeatureCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		return nil, 0, apperrors.NewMalformedInputError("import payload is not valid GeoJSON")
	}
	if collection.Type != "FeatureCollection" || collection.Features == nil {
		return nil, 0, apperrors.NewMalformedInputError("import payload must be a GeoJSON FeatureCollection with a features array")
	}

	candidates := make([]entities.FacilityCandidate, 0, len(collection.Features))
	dropped := 0

	for i, feature := range collection.Features {
		if feature == nil || feature.Geometry.Type != "Point" {
			log.Debug().Int("feature", i).Msg("dropping GeoJSON feature with non-Point geometry")
			dropped++
			continue
		}

		// GeoJSON order is [longitude, latitude]
		var coords []float64
		if err := json.Unmarshal(feature.Geometry.Coordinates, &coords); err != nil || len(coords) != 2 {
			log.Debug().Int("feature", i).Msg("dropping GeoJSON feature with unusable coordinates")
			dropped++
			continue
		}

		candidate := entities.FacilityCandidate{}
		for key, value := range feature.Properties {
			candidate[key] = value
		}
		candidate["longitude"] = coords[0]
		candidate["latitude"] = coords[1]

		if candidate.String("type") == "" {
			candidate["type"] = entities.SportTypeOther
		}
		if candidate.String("district") == "" {
			candidate["district"] = entities.DistrictCentral
		}
		if candidate.String("address") == "" {
			candidate["address"] = "Hong Kong"
		}

		candidates = append(candidates, candidate)
	}

	return candidates, dropped, nil
}
