package compliance

// Decision is the closed compliance verdict returned per analysis
type Decision string

const (
	DecisionSafe      Decision = "SAFE TO POST"
	DecisionChanges   Decision = "POST WITH CHANGES"
	DecisionDoNotPost Decision = "DO NOT POST"
)

// Valid reports whether d is one of the three known verdicts
func (d Decision) Valid() bool {
	switch d {
	case DecisionSafe, DecisionChanges, DecisionDoNotPost:
		return true
	}
	return false
}

// Severity of a flagged segment
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// FlaggedSegment is one claim or moment identified as a policy risk
type FlaggedSegment struct {
	Timestamp       string   `json:"timestamp,omitempty"`
	Text            string   `json:"text,omitempty"`
	Reason          string   `json:"reason"`
	PolicyViolation string   `json:"policyViolation"`
	Severity        Severity `json:"severity"`
}

// Result is the validated model verdict. It is never mutated after parsing.
type Result struct {
	Decision         Decision         `json:"decision"`
	OverallRiskScore float64          `json:"overallRiskScore"`
	CaptionRiskScore float64          `json:"captionRiskScore"`
	VideoRiskScore   float64          `json:"videoRiskScore"`
	FlaggedSegments  []FlaggedSegment `json:"flaggedSegments"`
	Reasoning        string           `json:"reasoning"`
	RequiredFixes    []string         `json:"requiredFixes"`
	SaferCaption     string           `json:"saferCaption,omitempty"`
	SaferScript      string           `json:"saferScript,omitempty"`
	CategoryDetected string           `json:"categoryDetected"`
}

// ScoreBand buckets a 0-100 risk score the way the dashboard colours it.
// It is presentation only; the verdict always comes from the model.
type ScoreBand int

const (
	BandLow ScoreBand = iota
	BandMedium
	BandHigh
)

func BandFor(score float64) ScoreBand {
	switch {
	case score > 60:
		return BandHigh
	case score > 30:
		return BandMedium
	default:
		return BandLow
	}
}

// HasHighRisk reports whether any flagged segment is HIGH severity
func (r *Result) HasHighRisk() bool {
	for _, s := range r.FlaggedSegments {
		if s.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
