package sources

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// CSVSource parses comma-delimited text with a header row. Fields are split
// positionally; quoted commas are not supported, a known limitation of the
// upstream export format. Rows never fail the batch individually; a cell
// that cannot be coerced is kept raw and rejected later by validation.
type CSVSource struct{}

var csvNumericFields = map[string]struct{}{
	"latitude":  {},
	"longitude": {},
	"courts":    {},
}

// Format returns the format identifier
func (s *CSVSource) Format() string {
	return FormatCSV
}

// Parse decodes raw into candidates, one per data row.
func (s *CSVSource) Parse(raw []byte) ([]entities.FacilityCandidate, int, error) {
	lines := strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, 0, apperrors.NewMalformedInputError("csv payload has no header row")
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	candidates := make([]entities.FacilityCandidate, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, ",")
		candidate := entities.FacilityCandidate{}
		for i, header := range headers {
			if header == "" || i >= len(cells) {
				continue
			}
			value := strings.TrimSpace(cells[i])
			if value == "" {
				continue
			}
			candidate[header] = coerceCSVValue(header, value)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, 0, nil
}

func coerceCSVValue(header, value string) interface{} {
	if _, numeric := csvNumericFields[header]; numeric {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	}

	if header == "amenities" && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		return parseAmenities(value)
	}

	return value
}

// parseAmenities parses a bracket-delimited amenity list, preferring a
// JSON-style array and falling back to a comma split of the stripped text.
func parseAmenities(value string) []string {
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err == nil {
		return items
	}

	stripped := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	parts := strings.Split(stripped, ",")
	items = make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
