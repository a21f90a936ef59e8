package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "PropertyFixture/1.0.0", generateKeyFromPath("property-fixture/v1.json"))
	assert.Equal(t, "PropertyViewedEvent/2.0.0", generateKeyFromPath("property-viewed-event/v2.json"))
	assert.Equal(t, "", generateKeyFromPath("v1.json"))
	assert.Equal(t, "", generateKeyFromPath("a/b/v1.json"))
}

func TestSchemasRegistered(t *testing.T) {
	assert.Contains(t, compiledSchemas, PropertyFixtureV1)
	assert.Contains(t, compiledSchemas, PropertyViewedEventV1)
}

func TestValidateFixture(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "slug only", body: `{"slug":"villa-1"}`},
		{name: "numeric id", body: `{"id":7,"title":"Daire","price":1500}`},
		{name: "string category and images", body: `{"id":"a1","category":"apartment","images":"[\"1.jpg\"]"}`},
		{name: "object category", body: `{"slug":"x","category":{"main":"residential","sub":"villa"}}`},
		{name: "nullable fields", body: `{"slug":"x","title":null,"location":{"district":null}}`},
		{name: "neither id nor slug", body: `{"title":"Orphan"}`, wantErr: true},
		{name: "off-shape fields are left to the decoder", body: `{"slug":"x","price":-1,"location":{"lat":120},"specs":{"age":"5-10"}}`},
		{name: "null slug with id", body: `{"id":3,"slug":null}`},
		{name: "null slug without id", body: `{"slug":null,"title":"Orphan"}`, wantErr: true},
		{name: "empty slug and id", body: `{"id":"","slug":""}`, wantErr: true},
		{name: "fractional id", body: `{"id":3.5}`, wantErr: true},
		{name: "array is not a record", body: `[]`, wantErr: true},
		{name: "broken json", body: `{"slug":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFixture([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateViewedEvent(t *testing.T) {
	assert.NoError(t, ValidateViewedEvent([]byte(`{"propertyId":"42","viewedAt":"2024-05-01T10:00:00Z","traceId":"abc"}`)))
	assert.Error(t, ValidateViewedEvent([]byte(`{"propertyId":"","viewedAt":"2024-05-01T10:00:00Z"}`)))
	assert.Error(t, ValidateViewedEvent([]byte(`{"propertyId":"42","viewedAt":"yesterday"}`)))
	assert.Error(t, ValidateViewedEvent([]byte(`{"propertyId":"42","viewedAt":"2024-05-01T10:00:00Z","extra":1}`)))
	assert.Error(t, Validate("Unknown/1.0.0", []byte(`{}`)))
}
