package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/courtside/sportmap/backend/pkg/errors"
)

func TestCSVSourceParse(t *testing.T) {
	source := &CSVSource{}

	t.Run("parses rows positionally with numeric coercion", func(t *testing.T) {
		payload := []byte("name,type,district,address,latitude,longitude,courts\n" +
			"Victoria Park Courts,basketball,wan_chai,1 Hing Fat St,22.28,114.19,6\n" +
			"Kowloon Tsai Pitch,soccer,kowloon_city,13 Inverness Rd,22.33,114.18,\n")

		candidates, dropped, err := source.Parse(payload)
		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		require.Len(t, candidates, 2)

		lat, ok := candidates[0].Float("latitude")
		require.True(t, ok)
		assert.InDelta(t, 22.28, lat, 0.0001)

		courts, ok := candidates[0].Int("courts")
		require.True(t, ok)
		assert.Equal(t, 6, courts)

		// The trailing empty cell never becomes a field
		assert.False(t, candidates[1].Has("courts"))
	})

	t.Run("keeps an uncoercible numeric cell as raw text", func(t *testing.T) {
		payload := []byte("name,latitude\nSomewhere,not-a-number\n")

		candidates, _, err := source.Parse(payload)
		require.NoError(t, err)
		require.Len(t, candidates, 1)

		_, ok := candidates[0].Float("latitude")
		assert.False(t, ok)
		assert.Equal(t, "not-a-number", candidates[0].String("latitude"))
	})

	t.Run("skips blank lines", func(t *testing.T) {
		payload := []byte("name,type\n\nVictoria Park Courts,basketball\n\n")

		candidates, _, err := source.Parse(payload)
		require.NoError(t, err)
		assert.Len(t, candidates, 1)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		payload := []byte("name,type\r\nVictoria Park Courts,basketball\r\n")

		candidates, _, err := source.Parse(payload)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "basketball", candidates[0].String("type"))
	})

	t.Run("rejects a payload with no header row", func(t *testing.T) {
		_, _, err := source.Parse([]byte("   \n"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedInput))
	})
}

func TestParseAmenities(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "json array",
			value: `["parking","lights","showers"]`,
			want:  []string{"parking", "lights", "showers"},
		},
		{
			name:  "bare bracket list",
			value: "[parking]",
			want:  []string{"parking"},
		},
		{
			name:  "quoted bracket list",
			value: `['parking', 'lights']`,
			want:  []string{"parking", "lights"},
		},
		{
			name:  "empty brackets",
			value: "[]",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAmenities(tt.value))
		})
	}
}
