package entities

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FacilityCandidate is an unvalidated facility record extracted from a raw
// import source. Keys are canonical field names, values carry whatever the
// source produced.
type FacilityCandidate map[string]interface{}

// String returns the value under key coerced to a trimmed string.
// Numbers are formatted, everything else yields "".
func (c FacilityCandidate) String(key string) string {
	value, ok := c[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Float returns the value under key as a float64. Numeric strings are parsed.
func (c FacilityCandidate) Float(key string) (float64, bool) {
	value, ok := c[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the value under key as an int, rejecting fractional values.
func (c FacilityCandidate) Int(key string) (int, bool) {
	f, ok := c.Float(key)
	if !ok {
		return 0, false
	}
	i := int(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

// StringSlice returns the value under key as a slice of trimmed strings.
func (c FacilityCandidate) StringSlice(key string) ([]string, bool) {
	value, ok := c[key]
	if !ok || value == nil {
		return nil, false
	}
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			items = append(items, strings.TrimSpace(s))
		}
		return items, true
	default:
		return nil, false
	}
}

// Has reports whether key is present with a non-nil value.
func (c FacilityCandidate) Has(key string) bool {
	value, ok := c[key]
	return ok && value != nil
}
