package issuefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// issueSchemaJSON accepts every field spelling Parse understands and pins
// down the types, so strict validation catches shape mistakes Parse would
// repair silently.
const issueSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "issue_id": {"type": ["string", "integer"]},
      "id": {"type": ["string", "integer"]},
      "number": {"type": "integer"},
      "title": {"type": "string", "minLength": 1},
      "description": {"type": ["string", "null"]},
      "body": {"type": ["string", "null"]},
      "status": {"type": "string"},
      "state": {"type": "string"},
      "created_date": {"type": "string"},
      "created_at": {"type": "string"},
      "url": {"type": "string"},
      "html_url": {"type": "string"},
      "labels": {
        "type": "array",
        "items": {"type": ["string", "object"]}
      }
    },
    "required": ["title"],
    "anyOf": [
      {"required": ["issue_id"]},
      {"required": ["id"]},
      {"required": ["number"]}
    ]
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func issueSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("issues.schema.json", strings.NewReader(issueSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, err := compiler.Compile("issues.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return compiledSchema, nil
}

// ValidateSchema checks raw JSON against the issue-array schema. Parse is
// forgiving; this is the strict gate behind `validate --strict`.
func ValidateSchema(raw []byte) error {
	value, err := decodeStrict(raw)
	if err != nil {
		return err
	}

	schema, err := issueSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func decodeStrict(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("issues file is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid issues JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("issues file contains trailing content")
	}
	return value, nil
}
