package score

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// privacyIndicator detects one category of personal data
type privacyIndicator struct {
	name    string
	pattern *regexp.Regexp
}

var privacyIndicators = []privacyIndicator{
	{"email address", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{"phone number", regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{3}\)|\b\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b`)},
	{"street address", regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[a-z0-9]+\s+){0,4}(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|way|place|pl)\b`)},
	{"location details", regexp.MustCompile(`(?i)\b(?:home address|lives at|my address|gps coordinates|zip code|postcode)\b`)},
	{"payment card number", regexp.MustCompile(`\b(?:\d{4}[\s-]?){3}\d{1,4}\b`)},
	{"social security number", regexp.MustCompile(`(?i)\b(?:\d{3}-\d{2}-\d{4}|ssn|social security)\b`)},
	{"bank account details", regexp.MustCompile(`(?i)\b(?:bank account|account number|iban|routing number|sort code)\b`)},
	{"credentials", regexp.MustCompile(`(?i)\b(?:password|passcode|pin code|login credentials)\b`)},
	{"date of birth", regexp.MustCompile(`(?i)\b(?:date of birth|dob|born on)\b`)},
	{"government ID", regexp.MustCompile(`(?i)\b(?:passport|driver'?s licen[cs]e|national id)\b`)},
	{"IP address", regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)},
}

const (
	highRiskIndicators = 3
)

// PrivacyIndicators returns the names of the distinct personal-data
// categories detected in text, in detector order.
func PrivacyIndicators(text string) []string {
	var found []string
	for _, ind := range privacyIndicators {
		if ind.pattern.MatchString(text) {
			found = append(found, ind.name)
		}
	}
	return found
}

func (s *Scorer) scorePrivacy(content string) model.Result {
	found := PrivacyIndicators(content)

	var (
		status     string
		risk       model.PrivacyRisk
		confidence float64
		correction string
	)

	switch {
	case len(found) >= highRiskIndicators:
		status, risk, confidence = model.StatusHighRisk, model.PrivacyHigh, 0.85
		correction = "Remove or redact the personal details before sharing this content publicly."
	case len(found) > 0:
		status, risk, confidence = model.StatusMediumRisk, model.PrivacyMedium, 0.7
		correction = "Consider redacting the personal details before sharing this content."
	default:
		status, risk, confidence = model.StatusLowRisk, model.PrivacyLow, 0.6
	}

	explanation := "No personal-data indicators were detected."
	if len(found) > 0 {
		explanation = fmt.Sprintf("Detected %d personal-data indicator(s): %s.", len(found), strings.Join(found, ", "))
	}

	evidence := make([]string, 0, len(found))
	for _, name := range found {
		evidence = append(evidence, "Detected "+name)
	}

	return model.Result{
		Status:             status,
		Confidence:         confidence,
		Reason:             "Local heuristic privacy scan. " + explanation,
		Evidence:           evidence,
		Correction:         model.StringPtr(correction),
		PrivacyRisk:        risk,
		PrivacyExplanation: explanation,
		Source:             model.SourceHeuristic,
	}
}
