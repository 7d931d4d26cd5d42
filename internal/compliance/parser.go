package compliance

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRegex = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// wireResult mirrors Result with pointers so absent fields can be told
// apart from zero values.
type wireResult struct {
	Decision         *string        `json:"decision"`
	OverallRiskScore *float64       `json:"overallRiskScore"`
	CaptionRiskScore *float64       `json:"captionRiskScore"`
	VideoRiskScore   *float64       `json:"videoRiskScore"`
	FlaggedSegments  *[]wireSegment `json:"flaggedSegments"`
	Reasoning        *string        `json:"reasoning"`
	RequiredFixes    *[]string      `json:"requiredFixes"`
	SaferCaption     string         `json:"saferCaption"`
	SaferScript      string         `json:"saferScript"`
	CategoryDetected *string        `json:"categoryDetected"`
}

type wireSegment struct {
	Timestamp       string  `json:"timestamp"`
	Text            string  `json:"text"`
	Reason          *string `json:"reason"`
	PolicyViolation *string `json:"policyViolation"`
	Severity        *string `json:"severity"`
}

// ParseResult decodes the model's response text and validates its shape.
// Non-JSON text yields ErrMalformedResponse; JSON that does not match the
// schema yields a *ValidationError.
func ParseResult(content string) (*Result, error) {
	jsonStr := extractJSON(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return wire.validate()
}

// extractJSON strips surrounding whitespace and an optional markdown code fence.
func extractJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if matches := codeFenceRegex.FindStringSubmatch(trimmed); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return trimmed
}

func (w *wireResult) validate() (*Result, error) {
	var problems []string
	missing := func(field string) {
		problems = append(problems, "missing "+field)
	}
	score := func(field string, v *float64) float64 {
		if v == nil {
			missing(field)
			return 0
		}
		if *v < 0 || *v > 100 {
			problems = append(problems, fmt.Sprintf("%s %g out of range [0,100]", field, *v))
		}
		return *v
	}

	r := &Result{
		SaferCaption: w.SaferCaption,
		SaferScript:  w.SaferScript,
	}

	if w.Decision == nil {
		missing("decision")
	} else {
		r.Decision = Decision(*w.Decision)
		if !r.Decision.Valid() {
			problems = append(problems, fmt.Sprintf("unknown decision %q", *w.Decision))
		}
	}

	r.OverallRiskScore = score("overallRiskScore", w.OverallRiskScore)
	r.CaptionRiskScore = score("captionRiskScore", w.CaptionRiskScore)
	r.VideoRiskScore = score("videoRiskScore", w.VideoRiskScore)

	if w.FlaggedSegments == nil {
		missing("flaggedSegments")
	} else {
		r.FlaggedSegments = make([]FlaggedSegment, 0, len(*w.FlaggedSegments))
		for i, seg := range *w.FlaggedSegments {
			out := FlaggedSegment{Timestamp: seg.Timestamp, Text: seg.Text}
			if seg.Reason == nil {
				missing(fmt.Sprintf("flaggedSegments[%d].reason", i))
			} else {
				out.Reason = *seg.Reason
			}
			if seg.PolicyViolation == nil {
				missing(fmt.Sprintf("flaggedSegments[%d].policyViolation", i))
			} else {
				out.PolicyViolation = *seg.PolicyViolation
			}
			if seg.Severity == nil {
				missing(fmt.Sprintf("flaggedSegments[%d].severity", i))
			} else {
				out.Severity = Severity(*seg.Severity)
				if !out.Severity.Valid() {
					problems = append(problems, fmt.Sprintf("flaggedSegments[%d]: unknown severity %q", i, *seg.Severity))
				}
			}
			r.FlaggedSegments = append(r.FlaggedSegments, out)
		}
	}

	if w.Reasoning == nil {
		missing("reasoning")
	} else {
		r.Reasoning = *w.Reasoning
	}

	if w.RequiredFixes == nil {
		missing("requiredFixes")
	} else {
		r.RequiredFixes = *w.RequiredFixes
	}

	if w.CategoryDetected == nil {
		missing("categoryDetected")
	} else {
		r.CategoryDetected = *w.CategoryDetected
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return r, nil
}
