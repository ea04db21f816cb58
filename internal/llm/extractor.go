// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "CVProfile")
	Description string        // Prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "number", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CVProfileSchema returns the extraction schema for CV text. Used by the
// extractCV flow to prefill applicant form fields from an uploaded document.
func CVProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "CVProfile",
		Description: `You are an expert CV parser. Extract the candidate's identity and experience
from the CV text below. Use the exact names as written in the document.`,
		Fields: []SchemaField{
			{
				Name:        "firstName",
				Type:        "\"string\"",
				Description: "Candidate's first/given name",
				Required:    true,
			},
			{
				Name:        "lastName",
				Type:        "\"string\"",
				Description: "Candidate's last/family name",
				Required:    true,
			},
			{
				Name:        "position",
				Type:        "\"string\"",
				Description: "Current or most recent job title",
				Required:    false,
			},
			{
				Name:        "experience",
				Type:        "number",
				Description: "Total years of professional experience, as a number",
				Required:    false,
			},
		},
	}
}
