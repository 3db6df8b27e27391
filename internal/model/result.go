package model

import (
	"fmt"
	"math"
)

// Status values shared across kinds
const (
	// AI verdicts for news and advanced
	StatusReal       = "Real"
	StatusFake       = "Fake"
	StatusMisleading = "Misleading"
	StatusUnverified = "Unverified"

	// Heuristic verdicts for news, link and advanced
	StatusLikelyReal = "Likely Real"
	StatusLikelyFake = "Likely Fake"
	StatusUncertain  = "Uncertain"

	// Domain reputation verdicts
	StatusTrustedSource    = "Trusted Source"
	StatusSuspiciousSource = "Suspicious Source"
	StatusNeutralSource    = "Neutral Source"

	// AI verdicts for link
	StatusSafe       = "Safe"
	StatusSuspicious = "Suspicious"
	StatusPhishing   = "Phishing"
	StatusMalicious  = "Malicious"

	// Privacy verdicts
	StatusLowRisk    = "Low Risk"
	StatusMediumRisk = "Medium Risk"
	StatusHighRisk   = "High Risk"

	// Deepfake verdicts
	StatusAuthentic                = "Authentic"
	StatusManipulated              = "Manipulated"
	StatusLikelyDeepfake           = "Likely Deepfake"
	StatusUncertainLocalHeuristics = "Uncertain (Local Heuristics)"
)

var (
	misinformationStatuses = []string{
		StatusReal, StatusFake, StatusMisleading, StatusUnverified,
		StatusLikelyReal, StatusLikelyFake, StatusUncertain,
		StatusTrustedSource, StatusSuspiciousSource, StatusNeutralSource,
	}
	linkStatuses = []string{
		StatusSafe, StatusSuspicious, StatusPhishing, StatusMalicious, StatusUnverified,
		StatusLikelyReal, StatusLikelyFake, StatusUncertain,
		StatusTrustedSource, StatusSuspiciousSource, StatusNeutralSource,
	}
	privacyStatuses = []string{
		StatusLowRisk, StatusMediumRisk, StatusHighRisk, StatusUnverified,
	}
	deepfakeStatuses = []string{
		StatusAuthentic, StatusManipulated, StatusSuspicious,
		StatusLikelyDeepfake, StatusUncertain, StatusUncertainLocalHeuristics,
	}
)

// Statuses returns the status vocabulary of a kind
func Statuses(kind Kind) []string {
	switch kind {
	case KindLink:
		return linkStatuses
	case KindPrivacy:
		return privacyStatuses
	case KindDeepfake:
		return deepfakeStatuses
	default:
		return misinformationStatuses
	}
}

// AI contract vocabularies; model answers may only use these
var (
	misinformationAIStatuses = []string{StatusReal, StatusFake, StatusMisleading, StatusUnverified}
	linkAIStatuses           = []string{StatusSafe, StatusSuspicious, StatusPhishing, StatusMalicious, StatusUnverified}
	deepfakeAIStatuses       = []string{StatusAuthentic, StatusManipulated, StatusSuspicious, StatusUncertain}
)

// AIStatuses returns the statuses a model verdict of kind may carry.
// Heuristic and domain statuses are excluded.
func AIStatuses(kind Kind) []string {
	switch kind {
	case KindLink:
		return linkAIStatuses
	case KindPrivacy:
		return privacyStatuses
	case KindDeepfake:
		return deepfakeAIStatuses
	default:
		return misinformationAIStatuses
	}
}

// DefaultStatus is the status used when a verdict cannot be mapped
func DefaultStatus(kind Kind) string {
	if kind == KindDeepfake {
		return StatusUncertain
	}
	return StatusUnverified
}

// IsNeutralStatus reports whether a status carries no verdict of its own
func IsNeutralStatus(status string) bool {
	return status == StatusUncertain || status == StatusUnverified
}

// PrivacyRisk is the qualitative personal-data exposure level
type PrivacyRisk string

const (
	PrivacyLow           PrivacyRisk = "Low"
	PrivacyMedium        PrivacyRisk = "Medium"
	PrivacyHigh          PrivacyRisk = "High"
	PrivacyNotApplicable PrivacyRisk = "Not Applicable"
)

// ConfidenceLevel is the qualitative confidence used by deepfake verdicts
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "LOW"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceHigh   ConfidenceLevel = "HIGH"
)

// Value maps a level onto the numeric confidence scale
func (l ConfidenceLevel) Value() float64 {
	switch l {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.6
	default:
		return 0.3
	}
}

// Source records which strategy produced a verdict
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
	SourceFallback  Source = "fallback"
)

// DeepfakeDetails carries the technical breakdown of a deepfake verdict
type DeepfakeDetails struct {
	IndicatorsFound     int     `json:"indicators_found"`
	FakeProbability     float64 `json:"fake_probability"` // 0..1
	TechnicalAssessment string  `json:"technical_assessment"`
}

// Result is the canonical analysis verdict returned for every request
type Result struct {
	Status             string           `json:"status"`
	Confidence         float64          `json:"confidence"`                 // 0..1, never a percentage
	ConfidenceLevel    ConfidenceLevel  `json:"confidence_level,omitempty"` // deepfake only
	Reason             string           `json:"reason"`
	Evidence           []string         `json:"evidence_used"`
	Correction         *string          `json:"correction"`
	PrivacyRisk        PrivacyRisk      `json:"privacy_risk"`
	PrivacyExplanation string           `json:"privacy_explanation"`
	AnalysisDetails    *DeepfakeDetails `json:"analysis_details,omitempty"` // deepfake only
	Source             Source           `json:"source"`
}

// Validate checks the result invariants for the given kind
func (r *Result) Validate(kind Kind) error {
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence out of range: %v", r.Confidence)
	}
	if !contains(Statuses(kind), r.Status) {
		return fmt.Errorf("status %q not valid for kind %s", r.Status, kind)
	}
	if r.Evidence == nil {
		return fmt.Errorf("evidence must be a list")
	}
	switch r.PrivacyRisk {
	case PrivacyLow, PrivacyMedium, PrivacyHigh, PrivacyNotApplicable:
	default:
		return fmt.Errorf("invalid privacy risk: %q", r.PrivacyRisk)
	}
	if kind == KindDeepfake {
		if r.AnalysisDetails == nil {
			return fmt.Errorf("deepfake result missing analysis details")
		}
		p := r.AnalysisDetails.FakeProbability
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("fake probability out of range: %v", p)
		}
	}
	return nil
}

// FallbackResult is the static verdict used when every strategy failed
func FallbackResult(kind Kind, reason string) Result {
	if reason == "" {
		reason = "Analysis could not be completed; no strategy produced a verdict."
	}
	r := Result{
		Status:             DefaultStatus(kind),
		Confidence:         0,
		Reason:             reason,
		Evidence:           []string{},
		PrivacyRisk:        PrivacyNotApplicable,
		PrivacyExplanation: "Privacy risk was not assessed.",
		Source:             SourceFallback,
	}
	if kind == KindDeepfake {
		r.ConfidenceLevel = ConfidenceLow
		r.AnalysisDetails = &DeepfakeDetails{
			FakeProbability:     0.5,
			TechnicalAssessment: reason,
		}
	}
	return r
}

// StringPtr returns a pointer to s, or nil for an empty string
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
