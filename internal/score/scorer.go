package score

import (
	"math"
	"regexp"
	"sort"

	"github.com/ppiankov/truevail/internal/model"
)

// Scorer is the local heuristic engine. It is pure and deterministic:
// the same content and kind always produce the same verdict, and it never
// fails.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Signal is the transparent output of one detector
type Signal struct {
	MatchedTerms []string // distinct, sorted
	Score        float64
}

// Score produces a heuristic verdict for content of the given kind.
// For deepfake, content is the file name or identifier of the upload.
func (s *Scorer) Score(content string, kind model.Kind) model.Result {
	switch kind {
	case model.KindPrivacy:
		return s.scorePrivacy(content)
	case model.KindDeepfake:
		return s.scoreDeepfake(content)
	default:
		// advanced has no dedicated heuristics; it shares the news lists
		return s.scoreMisinformation(content)
	}
}

// termMatcher matches a fixed phrase on word boundaries, case-insensitively
type termMatcher struct {
	term string
	re   *regexp.Regexp
}

func compileTerms(terms []string) []termMatcher {
	matchers := make([]termMatcher, 0, len(terms))
	for _, term := range terms {
		pattern := regexp.QuoteMeta(term)
		if isWordByte(term[0]) {
			pattern = `\b` + pattern
		}
		if isWordByte(term[len(term)-1]) {
			pattern += `\b`
		}
		matchers = append(matchers, termMatcher{
			term: term,
			re:   regexp.MustCompile(`(?i)` + pattern),
		})
	}
	return matchers
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// matchTerms returns the distinct terms found in text, sorted
func matchTerms(text string, matchers []termMatcher) []string {
	var found []string
	for _, m := range matchers {
		if m.re.MatchString(text) {
			found = append(found, m.term)
		}
	}
	sort.Strings(found)
	return found
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
