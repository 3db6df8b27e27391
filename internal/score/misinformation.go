package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

const (
	exclamationWeight = 0.5
	capsRunWeight     = 0.3

	// dominance threshold for the normalized fake/real shares
	dominantShare = 0.55

	// secondary sensational signals
	maxExclamations = 3
	maxCapsRatio    = 0.1
)

// Misinformation markers: sensational, clickbait and conspiratorial phrasing
var fakeTerms = []string{
	"you won't believe",
	"what happens next",
	"this one trick",
	"shocking",
	"secret",
	"they don't want you to know",
	"mainstream media",
	"wake up",
	"exposed",
	"cover-up",
	"hoax",
	"conspiracy",
	"miracle",
	"cure",
	"doctors hate",
	"big pharma",
	"breaking",
	"urgent",
	"share before",
	"share this",
	"banned",
	"censored",
	"100% proof",
	"guaranteed",
	"unbelievable",
	"rigged",
	"stolen election",
	"election fraud",
	"plandemic",
}

// Credibility markers: sourcing, attribution and research language
var realTerms = []string{
	"study",
	"research",
	"researchers",
	"according to",
	"published",
	"peer-reviewed",
	"journal",
	"university",
	"scientists",
	"survey",
	"data",
	"evidence",
	"report",
	"officials said",
	"spokesperson",
	"statement",
	"analysis",
	"percent",
	"health",
	"confirmed",
	"reuters",
	"associated press",
}

var (
	fakeMatchers = compileTerms(fakeTerms)
	realMatchers = compileTerms(realTerms)

	exclamationRunPattern = regexp.MustCompile(`!{2,}`)
	capsRunPattern        = regexp.MustCompile(`\b[A-Z]{4,}\b`)
	wordPattern           = regexp.MustCompile(`[A-Za-z]+`)

	clickbaitOpener = regexp.MustCompile(`(?i)\b(you won't believe|what happens next|this one trick|doctors hate)\b`)
	breakingNews    = regexp.MustCompile(`(?i)\bbreaking\b`)
	urgency         = regexp.MustCompile(`(?i)\b(urgent|share before|share this|act now)\b`)
	miracleCure     = regexp.MustCompile(`(?i)\b(miracle|cure[sd]?)\b`)
	electionTopic   = regexp.MustCompile(`(?i)\belections?\b`)
	fraudClaim      = regexp.MustCompile(`(?i)\b(fraud|rigged|stolen)\b`)
)

// Corrections attached to every Likely Fake verdict
const (
	correctionClickbait = "Headlines promising unbelievable revelations are a common clickbait pattern. Look for the same story from established news organizations before sharing."
	correctionBreaking  = "Breaking claims pushed with urgency are often unverified. Wait for confirmation from multiple reputable outlets before sharing."
	correctionMiracle   = "Claims of miracle cures should be checked against medical authorities such as the WHO or peer-reviewed research."
	correctionElection  = "Claims of election fraud should be verified with official election authorities and independent fact-checkers."
	correctionGeneric   = "Verify this claim with reputable news outlets and fact-checking organizations before sharing."
)

// MisinformationSignals computes the raw fake and real signals for text.
// The fake score adds weighted exclamation runs and all-caps runs to the
// number of distinct misinformation markers.
func MisinformationSignals(text string) (fake Signal, credible Signal) {
	normalized := strings.ReplaceAll(text, "’", "'")

	fakeMatched := matchTerms(normalized, fakeMatchers)
	realMatched := matchTerms(normalized, realMatchers)

	exclamationRuns := len(exclamationRunPattern.FindAllStringIndex(normalized, -1))
	capsRuns := len(capsRunPattern.FindAllStringIndex(normalized, -1))

	fake = Signal{
		MatchedTerms: fakeMatched,
		Score:        float64(len(fakeMatched)) + float64(exclamationRuns)*exclamationWeight + float64(capsRuns)*capsRunWeight,
	}
	credible = Signal{
		MatchedTerms: realMatched,
		Score:        float64(len(realMatched)),
	}
	return fake, credible
}

// shares normalizes raw scores into fractions of their sum. With no signal
// at all neither side may dominate.
func shares(fakeScore, realScore float64) (float64, float64) {
	total := fakeScore + realScore
	if total == 0 {
		return 0.3, 0.3
	}
	return fakeScore / total, realScore / total
}

// capsRatio is the share of words (3+ letters) written entirely in capitals
func capsRatio(text string) float64 {
	words := wordPattern.FindAllString(text, -1)
	counted, caps := 0, 0
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		counted++
		if strings.ToUpper(w) == w {
			caps++
		}
	}
	if counted == 0 {
		return 0
	}
	return float64(caps) / float64(counted)
}

func (s *Scorer) scoreMisinformation(content string) model.Result {
	fake, credible := MisinformationSignals(content)
	fakeShare, realShare := shares(fake.Score, credible.Score)
	exclamations := strings.Count(content, "!")
	ratio := capsRatio(content)

	var status string
	var confidence float64

	// Decision order matters: dominant share, secondary sensational
	// signals, raw-score tie break, then uncertain.
	switch {
	case fakeShare > dominantShare:
		status = model.StatusLikelyFake
		confidence = math.Min(0.6+0.4*fakeShare, 0.95)
	case realShare > dominantShare:
		status = model.StatusLikelyReal
		confidence = math.Min(0.6+0.4*realShare, 0.95)
	case exclamations > maxExclamations || ratio > maxCapsRatio:
		status = model.StatusLikelyFake
		confidence = 0.55
	case fake.Score != credible.Score:
		confidence = 0.5 + 0.25*math.Min(math.Abs(fakeShare-realShare), 1)
		if fake.Score > credible.Score {
			status = model.StatusLikelyFake
		} else {
			status = model.StatusLikelyReal
		}
	default:
		status = model.StatusUncertain
		confidence = 0.4
	}

	result := model.Result{
		Status:             status,
		Confidence:         round2(confidence),
		Reason:             misinformationReason(status, fake, credible, exclamations, ratio),
		Evidence:           misinformationEvidence(fake, credible),
		PrivacyRisk:        model.PrivacyNotApplicable,
		PrivacyExplanation: "Privacy risk is only assessed for privacy analyses.",
		Source:             model.SourceHeuristic,
	}
	if status == model.StatusLikelyFake {
		result.Correction = model.StringPtr(SelectCorrection(content))
	}
	return result
}

// SelectCorrection picks the correction text matching the dominant
// misinformation pattern of content.
func SelectCorrection(content string) string {
	normalized := strings.ReplaceAll(content, "’", "'")
	switch {
	case clickbaitOpener.MatchString(normalized):
		return correctionClickbait
	case breakingNews.MatchString(normalized) && urgency.MatchString(normalized):
		return correctionBreaking
	case miracleCure.MatchString(normalized):
		return correctionMiracle
	case electionTopic.MatchString(normalized) && fraudClaim.MatchString(normalized):
		return correctionElection
	default:
		return correctionGeneric
	}
}

func misinformationReason(status string, fake, credible Signal, exclamations int, ratio float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Local heuristic analysis (%s): ", status)
	fmt.Fprintf(&b, "%d misinformation marker(s)", len(fake.MatchedTerms))
	if len(fake.MatchedTerms) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(fake.MatchedTerms, ", "))
	}
	fmt.Fprintf(&b, ", %d credibility marker(s)", len(credible.MatchedTerms))
	if len(credible.MatchedTerms) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(credible.MatchedTerms, ", "))
	}
	fmt.Fprintf(&b, "; fake score %.2f vs real score %.2f", fake.Score, credible.Score)
	if exclamations > maxExclamations {
		fmt.Fprintf(&b, "; %d exclamation marks", exclamations)
	}
	if ratio > maxCapsRatio {
		fmt.Fprintf(&b, "; %.0f%% of words in capitals", ratio*100)
	}
	b.WriteString(". Verdict based on wording patterns only.")
	return b.String()
}

func misinformationEvidence(fake, credible Signal) []string {
	evidence := make([]string, 0, len(fake.MatchedTerms)+len(credible.MatchedTerms))
	for _, term := range fake.MatchedTerms {
		evidence = append(evidence, fmt.Sprintf("Misinformation marker: %q", term))
	}
	for _, term := range credible.MatchedTerms {
		evidence = append(evidence, fmt.Sprintf("Credibility marker: %q", term))
	}
	return evidence
}
