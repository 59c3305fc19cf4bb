package config

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/procurement-tools/procdash/internal/common"
	"github.com/procurement-tools/procdash/internal/schema"
)

// configSchema constrains imported configuration documents. Unknown top-level or
// settings keys are rejected so a mistyped key fails loudly instead of being
// silently dropped.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["settings"],
  "additionalProperties": false,
  "properties": {
    "settings": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "date_format": {"enum": ["auto", "dd-mm-yyyy", "yyyy-mm-dd"]},
        "pr_open_statuses": {"type": "array", "items": {"type": "string"}},
        "po_open_delivery_statuses": {"type": "array", "items": {"type": "string"}},
        "require_linked_po": {"type": "boolean"},
        "category_colors": {
          "type": "object",
          "additionalProperties": {"type": "string", "pattern": "^#[0-9A-Fa-f]{6}$"}
        }
      }
    },
    "column_mapping": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      }
    },
    "category_mapping": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("procdash-config.json", configSchema)

// ExportJSON renders the configuration as an indented JSON document.
func ExportJSON(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// ImportJSON validates and parses a configuration document. Category mapping
// values are canonicalized; entries with unknown categories are dropped and
// reported back as warnings, matching the lenient treatment of mapping sheets.
func ImportJSON(data []byte) (*Config, []string, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, common.NewAppError("CONFIG_PARSE", "configuration is not valid JSON", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, nil, common.NewAppError("CONFIG_SCHEMA", "configuration failed schema validation", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, nil, common.NewAppError("CONFIG_PARSE", "configuration did not unmarshal", err)
	}

	var warnings []string
	cleaned := map[string]string{}
	for key, raw := range cfg.CategoryMapping {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cat, ok := schema.Canonicalize(raw)
		if !ok {
			warnings = append(warnings, "category_mapping: unknown category "+raw+" for key "+key)
			continue
		}
		cleaned[key] = string(cat)
	}
	cfg.CategoryMapping = cleaned
	return cfg, warnings, nil
}
