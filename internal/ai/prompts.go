package ai

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// Contract is the fixed prompt and response schema for one kind
type Contract struct {
	Kind    model.Kind
	System  string
	Context string
	Rules   []string
	Schema  string
}

const misinformationSchema = `{
  "status": "%s",
  "confidence": <float 0.0-1.0>,
  "evidence_used": ["<string>", ...],
  "reason": "<short_explanation>",
  "correction": <string_or_null>,
  "privacy_risk": "Low" | "Medium" | "High",
  "privacy_explanation": "<short_string>"
}`

const privacySchema = `{
  "status": "Low Risk | Medium Risk | High Risk | Unverified",
  "confidence": <float 0.0-1.0>,
  "evidence_used": ["<personal data item found>", ...],
  "reason": "<short_explanation>",
  "correction": "<how to redact, or null>",
  "privacy_risk": "Low" | "Medium" | "High",
  "privacy_explanation": "<short_string>"
}`

const deepfakeSchema = `{
  "status": "Authentic | Manipulated | Suspicious | Uncertain",
  "confidence": "LOW | MEDIUM | HIGH",
  "reason": "...",
  "analysis_details": {
    "technical_assessment": "...",
    "indicators_found": 0,
    "fake_probability": 0.0
  },
  "privacy_risk": "Low | Medium | High",
  "privacy_explanation": "..."
}`

var evidenceRules = []string{
	"Output MUST be valid JSON. No markdown formatting.",
	`Use verifiable evidence only. Status defaults to "Unverified".`,
	`"evidence_used" MUST list at least one concrete observation from the content.`,
	`If the content cannot be verified, answer "Unverified" with confidence at most 0.3.`,
	"Confidence: 0.0 to 1.0.",
}

var contracts = map[model.Kind]Contract{
	model.KindNews: {
		Kind:    model.KindNews,
		System:  "You are a misinformation discovery engine. Analyze the content below.",
		Context: "Evaluate journalistic credibility and factual consistency.",
		Rules:   evidenceRules,
		Schema:  fmt.Sprintf(misinformationSchema, "Real | Fake | Misleading | Unverified"),
	},
	model.KindLink: {
		Kind:    model.KindLink,
		System:  "You are a misinformation discovery engine. Analyze the content below.",
		Context: "Analyze source reputation and domain trustworthiness.",
		Rules:   evidenceRules,
		Schema:  fmt.Sprintf(misinformationSchema, "Safe | Suspicious | Phishing | Malicious | Unverified"),
	},
	model.KindAdvanced: {
		Kind:    model.KindAdvanced,
		System:  "You are a misinformation discovery engine. Analyze the content below.",
		Context: "Analyze manipulation, framing, and emotional bias.",
		Rules:   evidenceRules,
		Schema:  fmt.Sprintf(misinformationSchema, "Real | Fake | Misleading | Unverified"),
	},
	model.KindPrivacy: {
		Kind:    model.KindPrivacy,
		System:  "You are a privacy auditor. Find personal data exposed in the content below.",
		Context: "Identify personally identifiable information and rate the exposure risk.",
		Rules: []string{
			"Output MUST be valid JSON. No markdown formatting.",
			"List each kind of personal data found in evidence_used.",
			`If nothing can be assessed, answer "Unverified" with confidence at most 0.3.`,
			"Confidence: 0.0 to 1.0.",
		},
		Schema: privacySchema,
	},
	model.KindDeepfake: {
		Kind:    model.KindDeepfake,
		System:  "You are an AI image forensic assistant.",
		Context: "Assess whether the attached image shows signs of manipulation or synthesis.",
		Rules: []string{
			"Analyze ONLY visible forensic indicators.",
			"No certainty claims.",
			`If the image cannot be assessed, answer "Uncertain" with confidence "LOW".`,
			"Respond ONLY in JSON.",
		},
		Schema: deepfakeSchema,
	},
}

// ContractFor returns the contract of kind; unknown kinds use news
func ContractFor(kind model.Kind) Contract {
	if c, ok := contracts[kind]; ok {
		return c
	}
	return contracts[model.KindNews]
}

// BuildPrompt renders the user turn for content under contract c. Content
// is cut to maxChars runes when maxChars is positive.
func BuildPrompt(c Contract, content string, maxChars int) string {
	var b strings.Builder

	b.WriteString("CONTEXT: ")
	b.WriteString(c.Context)
	b.WriteString("\n\nSTRICT INSTRUCTIONS:\n")
	for i, rule := range c.Rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	if c.Kind == model.KindDeepfake {
		b.WriteString("\nJSON SCHEMA:\n")
	} else {
		b.WriteString("\nJSON STRUCTURE:\n")
	}
	b.WriteString(c.Schema)
	b.WriteString("\n")

	if content = strings.TrimSpace(content); content != "" {
		if c.Kind == model.KindDeepfake {
			b.WriteString("\nFILE NAME:\n")
		} else {
			b.WriteString("\nCONTENT:\n")
		}
		b.WriteString(Truncate(content, maxChars))
		b.WriteString("\n")
	}

	return b.String()
}

// Truncate cuts s to at most n runes; n <= 0 disables the limit
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
