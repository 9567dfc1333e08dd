package config

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaJSON constrains the shape of a config document before it is
// unmarshaled, so a typoed key or a wrong type fails loudly instead of
// silently falling back to a default.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "include_declarations": {"type": "boolean"},
        "strict": {"type": "boolean"},
        "annotate": {"type": "boolean"},
        "workers": {"type": "integer", "minimum": 0},
        "max_file_size": {"type": "integer", "minimum": 0}
      }
    },
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "cyclomatic_complexity": {"type": "integer", "minimum": 1}
      }
    },
    "exclude": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}},
        "gitignore": {"type": "boolean"}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"},
        "dir": {"type": "string"},
        "ttl": {"type": "integer", "minimum": 0}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"enum": ["records", "text", "json", "yaml", "markdown", "toon"]},
        "path": {"type": "string"},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

// ValidateDocument checks a raw config document against the schema.
func ValidateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("cyclo.schema.json", raw); err != nil {
		return nil, err
	}
	return compiler.Compile("cyclo.schema.json")
}
