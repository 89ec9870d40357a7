package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for pulse.yml. Nested sections
// reject unknown keys; the root allows them so extension sections such as
// "logging" pass through to UnmarshalExtension.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	type BaseConfig struct {
		Version   string           `yaml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Daemon    *DaemonConfig    `yaml:"daemon,omitempty" jsonschema:"description=Settings for the pulse daemon"`
		Dashboard *DashboardConfig `yaml:"dashboard,omitempty" jsonschema:"description=Settings for the terminal dashboard"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Pulse Configuration"
	schema.Description = "Schema for pulse.yml / pulse.toml."
	schema.Version = "http://json-schema.org/draft-07/schema#"
	schema.AdditionalProperties = jsonschema.TrueSchema

	return json.MarshalIndent(schema, "", "  ")
}
