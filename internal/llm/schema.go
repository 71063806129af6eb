package llm

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// colorMappingSchema constrains the color classification response: a catalog
// 3-digit code plus the color name. Confidence and reasoning are advisory.
const colorMappingSchema = `{
  "type": "object",
  "properties": {
    "code": {"type": "string", "pattern": "^[0-9]{3}$"},
    "name": {"type": "string", "minLength": 1},
    "confidence": {"type": "string"},
    "reasoning": {"type": "string"}
  },
  "required": ["code", "name"]
}`

// contextSchema constrains the document analysis response. Only supplier and
// brand are required; everything else is best effort.
const contextSchema = `{
  "type": "object",
  "properties": {
    "document_type": {"type": ["string", "null"]},
    "supplier": {"type": "string"},
    "brand": {"type": "string"},
    "customer": {"type": ["string", "null"]},
    "reference_number": {"type": ["string", "null"]},
    "date": {"type": ["string", "null"]},
    "season": {"type": ["string", "null"]},
    "layout_info": {"type": ["string", "null"]}
  },
  "required": ["supplier", "brand"]
}`

var (
	compiledColorMapping = jsonschema.MustCompileString("color_mapping.json", colorMappingSchema)
	compiledContext      = jsonschema.MustCompileString("document_context.json", contextSchema)
)

// ValidateColorMapping checks a decoded color classification object against
// the expected schema.
func ValidateColorMapping(doc any) error {
	if err := compiledColorMapping.Validate(doc); err != nil {
		return fmt.Errorf("color mapping response: %w", err)
	}
	return nil
}

// ValidateDocumentContext checks a decoded context analysis object against
// the expected schema.
func ValidateDocumentContext(doc any) error {
	if err := compiledContext.Validate(doc); err != nil {
		return fmt.Errorf("context analysis response: %w", err)
	}
	return nil
}
