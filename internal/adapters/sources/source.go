// Package sources converts raw import payloads from heterogeneous external
// providers into facility candidates. Each source owns one encoding; a
// structurally wrong top-level payload fails the whole call, while individual
// bad rows or features are absorbed per the encoding's rules.
package sources

import (
	"fmt"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

// Supported import formats.
const (
	FormatJSON    = "json"
	FormatGeoJSON = "geojson"
	FormatCSV     = "csv"
)

// Source parses one encoding of facility import payloads. Parse returns the
// candidates in input order plus the count of features it dropped silently
// (only the GeoJSON source ever drops records).
type Source interface {
	Format() string
	Parse(raw []byte) ([]entities.FacilityCandidate, int, error)
}

// ForFormat returns the source for the declared format.
func ForFormat(format string) (Source, error) {
	switch format {
	case FormatJSON:
		return &JSONSource{}, nil
	case FormatGeoJSON:
		return &GeoJSONSource{}, nil
	case FormatCSV:
		return &CSVSource{}, nil
	default:
		return nil, apperrors.NewMalformedInputError(fmt.Sprintf("unsupported import format %q", format))
	}
}
