package sources

import (
	"encoding/json"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// JSONSource parses a JSON array of facility objects.
type JSONSource struct{}

// Format returns the format identifier
func (s *JSONSource) Format() string {
	return FormatJSON
}

// Parse decodes raw into candidates. The top-level value must be an array;
// a single object or scalar is malformed input.
func (s *JSONSource) Parse(raw []byte) ([]entities.FacilityCandidate, int, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, 0, apperrors.NewMalformedInputError("import payload must be a JSON array of facility objects")
	}

	candidates := make([]entities.FacilityCandidate, 0, len(records))
	for _, record := range records {
		candidates = append(candidates, entities.FacilityCandidate(record))
	}
	return candidates, 0, nil
}
