package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// runConfigSchema describes the shape of a config document. Semantic checks
// (ranges, cross-field rules) live in Validate.
const runConfigSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "duration":          {"type": ["string", "integer"]},
    "dataSizeGB":        {"type": "integer"},
    "seed":              {"type": "integer"},
    "mode":              {"type": "string", "enum": ["read", "write"]},
    "fanout":            {"type": "integer"},
    "numaDistribute":    {"type": "boolean"},
    "quick":             {"type": "boolean"},
    "marker":            {"type": "string"},
    "tickInterval":      {"type": ["string", "integer"]},
    "maxAccessMB":       {"type": "integer"},
    "disableThroughput": {"type": "boolean"},
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "json":           {"type": "string"},
        "csv":            {"type": "string"},
        "html":           {"type": "string"},
        "metricsFile":    {"type": "string"},
        "includeSamples": {"type": "boolean"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("membench.json", strings.NewReader(runConfigSchema)); err != nil {
		panic(fmt.Sprintf("invalid config schema: %v", err))
	}
	return compiler.MustCompile("membench.json")
}

// CheckSchema validates a YAML or JSON config document against the
// embedded schema. Every violation is reported as a ValidationError.
func CheckSchema(data []byte, path string) error {
	var doc interface{}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	} else {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
		// Round-trip through JSON so the validator sees JSON types.
		encoded, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("config is not representable as JSON: %w", err)
		}
		if err := json.Unmarshal(encoded, &doc); err != nil {
			return fmt.Errorf("config is not representable as JSON: %w", err)
		}
	}

	if doc == nil {
		return &ValidationError{Message: "config document is empty"}
	}

	err := compiledSchema.Validate(doc)
	if err == nil {
		return nil
	}

	errs := &ValidationErrors{}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		collectSchemaErrors(verr, errs)
	}
	if !errs.HasErrors() {
		errs.Add("", err.Error())
	}
	return errs
}

func collectSchemaErrors(err *jsonschema.ValidationError, errs *ValidationErrors) {
	if len(err.Causes) == 0 {
		field := strings.TrimPrefix(err.InstanceLocation, "/")
		errs.Add(strings.ReplaceAll(field, "/", "."), err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}
