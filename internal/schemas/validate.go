// Package schemas provides JSON Schema validation for generative model output.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// matchAnalysisSchema describes the shape the match analyzer demands from the
// model. Only matchingScore and aiSummary are mandatory; every other field is
// best-effort. matchingScore accepts numbers or numeric strings since models
// do not reliably follow the requested types.
const matchAnalysisSchema = `{
  "type": "object",
  "required": ["matchingScore", "aiSummary"],
  "properties": {
    "matchingScore":        {"type": ["number", "string"]},
    "aiSummary":            {"type": "string"},
    "overview":             {"type": "string"},
    "strengths":            {"type": "array", "items": {"type": "string"}},
    "potentialGaps":        {"type": "array", "items": {"type": "string"}},
    "potentialPrediction":  {"type": "string"},
    "personalityInference": {"type": "string"}
  }
}`

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateMatchAnalysis checks a model response against the match analysis
// schema. A *ValidationError means the response parsed as JSON but is missing
// mandatory keys or has wrong types; any other error means the document is not
// valid JSON at all.
func ValidateMatchAnalysis(jsonText string) error {
	schemaLoader := gojsonschema.NewStringLoader(matchAnalysisSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, e := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return ve
}
