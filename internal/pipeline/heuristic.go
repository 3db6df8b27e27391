package pipeline

import (
	"context"
	"math"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
	"github.com/ppiankov/truevail/internal/reputation"
	"github.com/ppiankov/truevail/internal/score"
)

// HeuristicStrategy scores content locally and, for submitted URLs, merges
// in the domain reputation. It never fails.
type HeuristicStrategy struct {
	scorer  *score.Scorer
	checker *reputation.Checker
}

// NewHeuristicStrategy creates the local fallback strategy
func NewHeuristicStrategy(scorer *score.Scorer, checker *reputation.Checker) *HeuristicStrategy {
	if scorer == nil {
		scorer = score.NewScorer()
	}
	if checker == nil {
		checker = reputation.NewChecker(nil)
	}
	return &HeuristicStrategy{scorer: scorer, checker: checker}
}

// Name returns the strategy name
func (h *HeuristicStrategy) Name() string {
	return string(model.SourceHeuristic)
}

// Analyze scores in.Content for in.Kind. Placeholder text for an
// unreachable page is not scored.
func (h *HeuristicStrategy) Analyze(_ context.Context, in model.Input) (*model.Result, error) {
	content := in.Content
	if in.Placeholder {
		content = ""
	}
	result := h.scorer.Score(content, in.Kind)
	if in.URL != "" && in.Kind.UsesMisinformationHeuristics() {
		result = MergeReputation(result, h.checker.ClassifyURL(in.URL))
	}
	return &result, nil
}

// MergeReputation folds a domain verdict into a content verdict. The
// content status stands unless it is neutral; confidence is the larger of
// the two and both rationales are kept.
func MergeReputation(content model.Result, domain reputation.Verdict) model.Result {
	merged := content
	if model.IsNeutralStatus(content.Status) {
		merged.Status = domain.Status
	}
	merged.Confidence = math.Max(content.Confidence, domain.Confidence)

	reasons := make([]string, 0, 2)
	for _, r := range []string{content.Reason, domain.Reason} {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}
	merged.Reason = strings.Join(reasons, " ")

	merged.Evidence = append(append([]string{}, content.Evidence...), domain.Reason)
	return merged
}
