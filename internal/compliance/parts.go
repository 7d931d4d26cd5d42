package compliance

import (
	"fmt"
	"strings"

	"github.com/mcao2/postcheck/internal/media"
)

// Part is one piece of request content: either text or inline media.
type Part struct {
	Text  string
	Media *media.Encoded
}

// AnalyzeInput is the content submitted for a full analysis. Any subset may
// be present, but not none.
type AnalyzeInput struct {
	Media   *media.Encoded
	Caption string
	Script  string
}

// Empty reports whether no input is present. Whitespace-only text counts as
// absent.
func (in AnalyzeInput) Empty() bool {
	return in.Media == nil && strings.TrimSpace(in.Caption) == "" && strings.TrimSpace(in.Script) == ""
}

// BuildParts returns the request parts for a full analysis: the fixed
// instruction followed by exactly the inputs that are present, in the order
// media, caption, script.
func BuildParts(in AnalyzeInput) []Part {
	parts := []Part{{Text: analyzeInstruction}}

	if in.Media != nil {
		parts = append(parts, Part{Media: in.Media})
	}
	if strings.TrimSpace(in.Caption) != "" {
		parts = append(parts, Part{Text: captionPrefix + in.Caption})
	}
	if strings.TrimSpace(in.Script) != "" {
		parts = append(parts, Part{Text: scriptPrefix + in.Script})
	}

	return parts
}

// CaptionParts returns the single part of a caption-only test.
func CaptionParts(caption string) []Part {
	return []Part{{Text: fmt.Sprintf(captionTestTemplate, caption)}}
}
