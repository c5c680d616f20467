package ai

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kapu/instaplanner-ai-go/internal/domain"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

var (
	strategyRequiredFields = []string{
		"targetAudience", "toneAndManner", "benchmarkAnalysis",
		"contentPillars", "growthKeywords", "improvementSuggestions",
	}
	postRequiredFields = []string{
		"day", "title", "type", "caption", "hashtags", "visualPrompt", "status",
	}
)

func postTypeEnum() []string {
	values := make([]string, len(domain.PostTypes))
	for i, t := range domain.PostTypes {
		values[i] = string(t)
	}
	return values
}

// StrategyResponseSchema is the output schema declared to Gemini.
// Status is constrained to "planned" at request time.
func StrategyResponseSchema() *genai.Schema {
	stringArray := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"strategy": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"targetAudience": {Type: genai.TypeString},
					"toneAndManner":  {Type: genai.TypeString},
					"benchmarkAnalysis": {
						Type:        genai.TypeString,
						Description: "Analysis of the benchmark account or general competitive advice if none provided.",
					},
					"contentPillars":         stringArray(),
					"growthKeywords":         stringArray(),
					"improvementSuggestions": {Type: genai.TypeString},
				},
				Required: strategyRequiredFields,
			},
			"monthlyPlan": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":          {Type: genai.TypeInteger, Description: "Day of the month (1-30)"},
						"title":        {Type: genai.TypeString},
						"type":         {Type: genai.TypeString, Enum: postTypeEnum()},
						"caption":      {Type: genai.TypeString, Description: "Engaging caption draft"},
						"hashtags":     stringArray(),
						"visualPrompt": {Type: genai.TypeString, Description: "Description of what the image/video should look like"},
						"status":       {Type: genai.TypeString, Enum: []string{string(domain.PostStatusPlanned)}},
					},
					Required: postRequiredFields,
				},
			},
		},
		Required: []string{"strategy", "monthlyPlan"},
	}
}

// strategyJSONSchema mirrors StrategyResponseSchema for validation of the reply.
// Status only has to be a string here: out-of-contract values are reset by the session, not rejected.
const strategyJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["strategy", "monthlyPlan"],
  "properties": {
    "strategy": {
      "type": "object",
      "required": ["targetAudience", "toneAndManner", "benchmarkAnalysis", "contentPillars", "growthKeywords", "improvementSuggestions"],
      "properties": {
        "targetAudience": {"type": "string"},
        "toneAndManner": {"type": "string"},
        "benchmarkAnalysis": {"type": "string"},
        "contentPillars": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "growthKeywords": {"type": "array", "items": {"type": "string"}},
        "improvementSuggestions": {"type": "string"}
      }
    },
    "monthlyPlan": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["day", "title", "type", "caption", "hashtags", "visualPrompt", "status"],
        "properties": {
          "day": {"type": "integer"},
          "title": {"type": "string"},
          "type": {"type": "string", "enum": ["Reels", "Carousel", "Image", "Story"]},
          "caption": {"type": "string"},
          "hashtags": {"type": "array", "items": {"type": "string"}},
          "visualPrompt": {"type": "string"},
          "status": {"type": "string"}
        }
      }
    }
  }
}`

// StrategyJSONSchema returns the JSON Schema document for the analysis reply.
func StrategyJSONSchema() string {
	return strategyJSONSchema
}

// SchemaValidator validates raw payloads against a compiled JSON Schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

func NewSchemaValidator(schemaJSON string) (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// NewStrategyValidator compiles the analysis reply schema.
func NewStrategyValidator() (*SchemaValidator, error) {
	return NewSchemaValidator(strategyJSONSchema)
}

var defaultStrategyValidator = sync.OnceValue(func() *SchemaValidator {
	v, err := NewStrategyValidator()
	if err != nil {
		panic(err)
	}
	return v
})

func mustStrategyValidator() *SchemaValidator {
	return defaultStrategyValidator()
}

func (v *SchemaValidator) Validate(payload []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("payload does not match response schema: %s", strings.Join(messages, "; "))
}
