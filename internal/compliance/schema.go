package compliance

import (
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// requiredFields lists the top-level fields every response must carry.
var requiredFields = []string{
	"decision",
	"overallRiskScore",
	"captionRiskScore",
	"videoRiskScore",
	"flaggedSegments",
	"reasoning",
	"requiredFixes",
	"categoryDetected",
}

var segmentRequiredFields = []string{"reason", "policyViolation", "severity"}

// AnalysisSchema is the response schema sent with every request. Each call
// returns a fresh value so callers may not alias shared state.
func AnalysisSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	num := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"decision":         str("One of: 'SAFE TO POST', 'POST WITH CHANGES', 'DO NOT POST'"),
			"overallRiskScore": num("Risk score from 0 to 100"),
			"captionRiskScore": num("Caption risk score from 0 to 100"),
			"videoRiskScore":   num("Video risk score from 0 to 100"),
			"flaggedSegments": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"timestamp":       str(""),
						"text":            str(""),
						"reason":          str(""),
						"policyViolation": str(""),
						"severity":        str("One of: 'LOW', 'MEDIUM', 'HIGH'"),
					},
					Required: append([]string(nil), segmentRequiredFields...),
				},
			},
			"reasoning": str(""),
			"requiredFixes": {
				Type:  genai.TypeArray,
				Items: str(""),
			},
			"saferCaption":     str(""),
			"saferScript":      str(""),
			"categoryDetected": str(""),
		},
		Required: append([]string(nil), requiredFields...),
	}
}

// toJSONSchema converts a Gemini schema into the JSON Schema dialect used by
// OpenAI-compatible structured outputs.
func toJSONSchema(s *genai.Schema) jsonschema.Definition {
	def := jsonschema.Definition{
		Type:        jsonschema.DataType(strings.ToLower(string(s.Type))),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, prop := range s.Properties {
			def.Properties[name] = toJSONSchema(prop)
		}
	}
	if s.Items != nil {
		items := toJSONSchema(s.Items)
		def.Items = &items
	}
	return def
}
