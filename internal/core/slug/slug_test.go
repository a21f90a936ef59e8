package slug

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		decoded   string
		lower     string
		numericID string
		wantErr   bool
	}{
		{
			name:      "trailing numeric id",
			raw:       "deniz-manzarali-villa-42",
			decoded:   "deniz-manzarali-villa-42",
			lower:     "deniz-manzarali-villa-42",
			numericID: "42",
		},
		{
			name:    "percent encoded turkish",
			raw:     "kiral%C4%B1k-daire",
			decoded: "kiralık-daire",
			lower:   "kiralık-daire",
		},
		{
			name:    "mixed case",
			raw:     "Satilik-Daire-Kadikoy",
			decoded: "Satilik-Daire-Kadikoy",
			lower:   "satilik-daire-kadikoy",
		},
		{
			name:    "no hyphen means no candidate",
			raw:     "12345",
			decoded: "12345",
			lower:   "12345",
		},
		{
			name:    "trailing segment not numeric",
			raw:     "villa-42a",
			decoded: "villa-42a",
			lower:   "villa-42a",
		},
		{
			name:    "empty trailing segment",
			raw:     "villa-",
			decoded: "villa-",
			lower:   "villa-",
		},
		{
			name:      "malformed escape falls back to raw",
			raw:       "villa-%ZZ-7",
			decoded:   "villa-%ZZ-7",
			lower:     "villa-%zz-7",
			numericID: "7",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Normalize(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.raw, key.Raw)
			assert.Equal(t, tt.decoded, key.Decoded)
			assert.Equal(t, tt.lower, key.Lower)
			assert.Equal(t, tt.numericID, key.NumericID)
			assert.Equal(t, tt.numericID != "", key.HasNumericID())
		})
	}
}

func TestNormalize_DecodeIdempotence(t *testing.T) {
	for _, s := range []string{"deniz-manzarali-villa-42", "kiralık-daire", "şişli-ofis-9"} {
		plain, err := Normalize(s)
		require.NoError(t, err)
		encoded, err := Normalize(url.PathEscape(s))
		require.NoError(t, err)

		assert.Equal(t, plain.Decoded, encoded.Decoded)
		assert.Equal(t, plain.Lower, encoded.Lower)
		assert.Equal(t, plain.NumericID, encoded.NumericID)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("kiral%C4%B1k-daire", "kiralık-daire"))
	assert.True(t, Equal("Villa-1", "villa-1"))
	assert.False(t, Equal("villa-1", "villa-2"))
}
