package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// unverifiedConfidenceCap bounds the confidence of verdicts that carry no
// conclusion of their own
const unverifiedConfidenceCap = 0.3

// defaultConfidence is used when the model omits or garbles confidence
const defaultConfidence = 0.5

// schema normalizes one kind's decoded model response
type schema func(obj map[string]any, kind model.Kind) (*model.Result, error)

// schemas holds one tagged response schema per kind. news, link and
// advanced share the evidence-strict contract.
var schemas = map[model.Kind]schema{
	model.KindNews:     normalizeEvidenceStrict,
	model.KindLink:     normalizeEvidenceStrict,
	model.KindAdvanced: normalizeEvidenceStrict,
	model.KindPrivacy:  normalizePrivacy,
	model.KindDeepfake: normalizeDeepfake,
}

// Normalize validates raw model output for kind and maps it onto the
// canonical result. Failures wrap model.ErrInvalidModelOutput.
func Normalize(raw string, kind model.Kind) (*model.Result, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	normalize, ok := schemas[kind]
	if !ok {
		normalize = normalizeEvidenceStrict
	}

	result, err := normalize(obj, kind)
	if err != nil {
		return nil, err
	}
	result.Source = model.SourceAI
	return result, nil
}

func normalizeEvidenceStrict(obj map[string]any, kind model.Kind) (*model.Result, error) {
	evidence := asStringList(obj["evidence_used"])
	if len(evidence) == 0 {
		return nil, fmt.Errorf("%s verdict: %w", kind, model.ErrMissingEvidence)
	}

	status := MapStatus(kind, asString(obj["status"]))
	confidence := normalizeConfidence(obj["confidence"], defaultConfidence)
	if model.IsNeutralStatus(status) {
		confidence = math.Min(confidence, unverifiedConfidenceCap)
	}

	return &model.Result{
		Status:             status,
		Confidence:         confidence,
		Reason:             reasonOrDefault(obj),
		Evidence:           evidence,
		Correction:         correction(obj["correction"]),
		PrivacyRisk:        parsePrivacyRisk(obj["privacy_risk"], model.PrivacyNotApplicable),
		PrivacyExplanation: asString(obj["privacy_explanation"]),
	}, nil
}

func normalizePrivacy(obj map[string]any, kind model.Kind) (*model.Result, error) {
	risk := parsePrivacyRisk(obj["privacy_risk"], "")
	status := MapStatus(kind, asString(obj["status"]))

	// Either field may carry the verdict; fill the other from it
	switch {
	case risk == "" && status != model.StatusUnverified:
		risk = riskForStatus(status)
	case risk != "" && status == model.StatusUnverified:
		status = statusForRisk(risk)
	case risk == "":
		risk = model.PrivacyLow
	}

	confidence := normalizeConfidence(obj["confidence"], defaultConfidence)
	if model.IsNeutralStatus(status) {
		confidence = math.Min(confidence, unverifiedConfidenceCap)
	}

	explanation := asString(obj["privacy_explanation"])
	if explanation == "" {
		explanation = reasonOrDefault(obj)
	}

	return &model.Result{
		Status:             status,
		Confidence:         confidence,
		Reason:             reasonOrDefault(obj),
		Evidence:           asStringList(obj["evidence_used"]),
		Correction:         correction(obj["correction"]),
		PrivacyRisk:        risk,
		PrivacyExplanation: explanation,
	}, nil
}

func normalizeDeepfake(obj map[string]any, kind model.Kind) (*model.Result, error) {
	status := MapStatus(kind, asString(obj["status"]))
	level := parseConfidenceLevel(obj["confidence"])
	reason := reasonOrDefault(obj)

	details := &model.DeepfakeDetails{
		FakeProbability:     0.5,
		TechnicalAssessment: reason,
	}
	if raw, ok := obj["analysis_details"].(map[string]any); ok {
		if n, ok := asFloat(raw["indicators_found"]); ok && n > 0 {
			details.IndicatorsFound = int(n)
		}
		details.FakeProbability = normalizeConfidence(raw["fake_probability"], 0.5)
		if assessment := asString(raw["technical_assessment"]); assessment != "" {
			details.TechnicalAssessment = assessment
		}
	}

	explanation := asString(obj["privacy_explanation"])
	if explanation == "" {
		explanation = "Privacy risk was not assessed for this image."
	}

	return &model.Result{
		Status:             status,
		Confidence:         level.Value(),
		ConfidenceLevel:    level,
		Reason:             reason,
		Evidence:           asStringList(obj["evidence_used"]),
		Correction:         correction(obj["correction"]),
		PrivacyRisk:        parsePrivacyRisk(obj["privacy_risk"], model.PrivacyNotApplicable),
		PrivacyExplanation: explanation,
		AnalysisDetails:    details,
	}, nil
}

// parseConfidenceLevel reads LOW/MEDIUM/HIGH case-insensitively. Numeric
// confidences are bucketed; anything else is LOW.
func parseConfidenceLevel(v any) model.ConfidenceLevel {
	if s, ok := v.(string); ok {
		switch model.ConfidenceLevel(strings.ToUpper(strings.TrimSpace(s))) {
		case model.ConfidenceHigh:
			return model.ConfidenceHigh
		case model.ConfidenceMedium:
			return model.ConfidenceMedium
		case model.ConfidenceLow:
			return model.ConfidenceLow
		}
	}
	if _, ok := asFloat(v); !ok {
		return model.ConfidenceLow
	}
	switch f := normalizeConfidence(v, 0); {
	case f >= 0.75:
		return model.ConfidenceHigh
	case f >= 0.45:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func parsePrivacyRisk(v any, fallback model.PrivacyRisk) model.PrivacyRisk {
	switch strings.ToLower(asString(v)) {
	case "low", "low risk":
		return model.PrivacyLow
	case "medium", "medium risk", "moderate":
		return model.PrivacyMedium
	case "high", "high risk":
		return model.PrivacyHigh
	case "not applicable", "notapplicable", "n/a", "none":
		return model.PrivacyNotApplicable
	default:
		return fallback
	}
}

func riskForStatus(status string) model.PrivacyRisk {
	switch status {
	case model.StatusHighRisk:
		return model.PrivacyHigh
	case model.StatusMediumRisk:
		return model.PrivacyMedium
	default:
		return model.PrivacyLow
	}
}

func statusForRisk(risk model.PrivacyRisk) string {
	switch risk {
	case model.PrivacyHigh:
		return model.StatusHighRisk
	case model.PrivacyMedium:
		return model.StatusMediumRisk
	case model.PrivacyLow:
		return model.StatusLowRisk
	default:
		return model.StatusUnverified
	}
}

func reasonOrDefault(obj map[string]any) string {
	if reason := asString(obj["reason"]); reason != "" {
		return reason
	}
	return "The model returned no reason for this verdict."
}

// correction returns nil for absent, empty or placeholder corrections
func correction(v any) *string {
	s := asString(v)
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a":
		return nil
	}
	return &s
}
