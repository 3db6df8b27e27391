package validate

import (
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// Free-text synonyms per kind, keyed by lowercased model output
var statusSynonyms = map[model.Kind]map[string]string{
	model.KindNews: {
		"true":            model.StatusReal,
		"accurate":        model.StatusReal,
		"credible":        model.StatusReal,
		"verified":        model.StatusReal,
		"authentic":       model.StatusReal,
		"false":           model.StatusFake,
		"fabricated":      model.StatusFake,
		"hoax":            model.StatusFake,
		"misinformation":  model.StatusFake,
		"disinformation":  model.StatusFake,
		"partially true":  model.StatusMisleading,
		"mixed":           model.StatusMisleading,
		"out of context":  model.StatusMisleading,
		"biased":          model.StatusMisleading,
		"manipulative":    model.StatusMisleading,
		"unverifiable":    model.StatusUnverified,
		"unknown":         model.StatusUnverified,
		"unclear":         model.StatusUnverified,
		"insufficient":    model.StatusUnverified,
		"not enough info": model.StatusUnverified,
	},
	model.KindLink: {
		"trusted":         model.StatusSafe,
		"legitimate":      model.StatusSafe,
		"reputable":       model.StatusSafe,
		"benign":          model.StatusSafe,
		"questionable":    model.StatusSuspicious,
		"unreliable":      model.StatusSuspicious,
		"scam":            model.StatusPhishing,
		"fraudulent":      model.StatusPhishing,
		"malware":         model.StatusMalicious,
		"dangerous":       model.StatusMalicious,
		"harmful":         model.StatusMalicious,
		"unknown":         model.StatusUnverified,
		"unverifiable":    model.StatusUnverified,
		"unclear":         model.StatusUnverified,
		"not enough info": model.StatusUnverified,
	},
	model.KindPrivacy: {
		"low":    model.StatusLowRisk,
		"medium": model.StatusMediumRisk,
		"high":   model.StatusHighRisk,
		"safe":   model.StatusLowRisk,
		"risky":  model.StatusHighRisk,
	},
	model.KindDeepfake: {
		"real":            model.StatusAuthentic,
		"genuine":         model.StatusAuthentic,
		"original":        model.StatusAuthentic,
		"fake":            model.StatusManipulated,
		"deepfake":        model.StatusManipulated,
		"edited":          model.StatusManipulated,
		"ai-generated":    model.StatusManipulated,
		"ai generated":    model.StatusManipulated,
		"synthetic":       model.StatusManipulated,
		"likely fake":     model.StatusSuspicious,
		"possibly edited": model.StatusSuspicious,
		"unknown":         model.StatusUncertain,
		"unclear":         model.StatusUncertain,
	},
}

// MapStatus maps free-text model output onto the vocabulary of kind.
// Matching is case-insensitive: an exact vocabulary match wins, then the
// synonym table, else the kind's default status.
func MapStatus(kind model.Kind, raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return model.DefaultStatus(kind)
	}

	for _, status := range model.AIStatuses(kind) {
		if strings.ToLower(status) == text {
			return status
		}
	}

	synonyms := statusSynonyms[kind]
	if kind == model.KindAdvanced {
		synonyms = statusSynonyms[model.KindNews]
	}
	if status, ok := synonyms[text]; ok {
		return status
	}

	return model.DefaultStatus(kind)
}
