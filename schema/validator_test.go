package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemaIsJSON(t *testing.T) {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(Schema(), &doc))
	assert.Equal(t, "object", doc["type"])
}

func TestValidate(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     map[string]interface{}
		wantErr string
	}{
		{name: "empty", doc: map[string]interface{}{}},
		{
			name: "full",
			doc: map[string]interface{}{
				"version": "1.0",
				"daemon": map[string]interface{}{
					"simulation":          false,
					"simulation_interval": "2s",
					"config_debounce_ms":  50,
				},
				"dashboard": map[string]interface{}{"theme": "kanagawa"},
				"logging":   map[string]interface{}{"level": "debug"},
			},
		},
		{
			name:    "unknown daemon key",
			doc:     map[string]interface{}{"daemon": map[string]interface{}{"simulate": true}},
			wantErr: "schema validation failed",
		},
		{
			name:    "wrong type",
			doc:     map[string]interface{}{"daemon": map[string]interface{}{"simulation": "yes"}},
			wantErr: "/daemon/simulation",
		},
		{
			name:    "unknown theme",
			doc:     map[string]interface{}{"dashboard": map[string]interface{}{"theme": "neon"}},
			wantErr: "/dashboard/theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
