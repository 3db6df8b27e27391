package score

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// Direct manipulation indicators in a file name. Short tokens only match
// as whole tokens; longer ones match anywhere in the name.
var directIndicators = []string{
	"deepfake", "fake", "faceswap", "swap", "generated", "synthetic",
	"ai", "gan", "stylegan", "morph", "morphed", "manipulated",
	"midjourney", "dalle", "sdxl", "diffusion",
}

// Weaker editing patterns
var suspiciousPatterns = []string{
	"edit", "edited", "filter", "filtered", "modified", "retouch", "retouched",
	"photoshop", "enhanced", "beauty", "faceapp", "render", "cgi", "composite",
}

var (
	tokenSplit   = regexp.MustCompile(`[^a-z0-9]+`)
	cameraNaming = regexp.MustCompile(`(?i)^(img|dsc|dscn|pxl|dcim|mvimg|vid)[_-]?\d+`)
	videoExts    = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true}
	imageExts    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true, ".heic": true}
)

const (
	minSubstrTerm = 5

	deepfakeLikelyThreshold    = 0.7
	deepfakeUncertainThreshold = 0.4
)

// matchNameTerms returns the distinct terms present in a lowercased
// file name, honoring the short-token rule.
func matchNameTerms(name string, tokens map[string]bool, terms []string) []string {
	var found []string
	for _, term := range terms {
		if tokens[term] || (len(term) >= minSubstrTerm && strings.Contains(name, term)) {
			found = append(found, term)
		}
	}
	return found
}

// DeepfakeProbability estimates the manipulation probability from a file
// name and returns the indicators that drove it.
func DeepfakeProbability(filename string) (float64, []string, []string) {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(filename)))
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	tokens := make(map[string]bool)
	for _, tok := range tokenSplit.Split(stem, -1) {
		if tok != "" {
			tokens[tok] = true
		}
	}

	direct := matchNameTerms(stem, tokens, directIndicators)
	if len(direct) > 0 {
		return math.Min(0.6+0.15*float64(len(direct)), 0.98), direct, nil
	}

	weak := matchNameTerms(stem, tokens, suspiciousPatterns)
	if len(weak) > 0 {
		return math.Min(0.5+0.12*float64(len(weak)), 0.9), nil, weak
	}

	prob := 0.2
	switch {
	case videoExts[ext]:
		prob += 0.1
	case ext == "" || !imageExts[ext]:
		prob += 0.05
	}
	if cameraNaming.MatchString(stem) {
		prob -= 0.05
	}
	return prob, nil, nil
}

func (s *Scorer) scoreDeepfake(filename string) model.Result {
	prob, direct, weak := DeepfakeProbability(filename)
	prob = round2(clamp01(prob))

	status := model.StatusUncertainLocalHeuristics
	level := model.ConfidenceLow
	switch {
	case prob > deepfakeLikelyThreshold:
		status = model.StatusLikelyDeepfake
		level = model.ConfidenceMedium
	case prob >= deepfakeUncertainThreshold:
		status = model.StatusUncertain
	}

	var assessment string
	switch {
	case len(direct) > 0:
		assessment = fmt.Sprintf("File name contains direct manipulation indicators: %s.", strings.Join(direct, ", "))
	case len(weak) > 0:
		assessment = fmt.Sprintf("File name suggests editing: %s.", strings.Join(weak, ", "))
	default:
		assessment = "No manipulation indicators in the file name; base rate adjusted for file type."
	}

	evidence := make([]string, 0, len(direct)+len(weak))
	for _, term := range direct {
		evidence = append(evidence, fmt.Sprintf("Direct indicator: %q", term))
	}
	for _, term := range weak {
		evidence = append(evidence, fmt.Sprintf("Editing pattern: %q", term))
	}

	return model.Result{
		Status:             status,
		Confidence:         level.Value(),
		ConfidenceLevel:    level,
		Reason:             "Local heuristics only; image pixels were not inspected. " + assessment,
		Evidence:           evidence,
		PrivacyRisk:        model.PrivacyNotApplicable,
		PrivacyExplanation: "Image content was not processed by local heuristics.",
		AnalysisDetails: &model.DeepfakeDetails{
			IndicatorsFound:     len(direct) + len(weak),
			FakeProbability:     prob,
			TechnicalAssessment: assessment,
		},
		Source: model.SourceHeuristic,
	}
}
