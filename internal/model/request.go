package model

import "strings"

// Kind selects the analysis contract applied to a request
type Kind string

const (
	KindNews     Kind = "news"     // Journalistic credibility
	KindLink     Kind = "link"     // Source and URL trustworthiness
	KindAdvanced Kind = "advanced" // Manipulation, framing, emotional bias
	KindPrivacy  Kind = "privacy"  // Personal-data exposure
	KindDeepfake Kind = "deepfake" // Image manipulation
)

// Kinds lists every supported analysis kind in a stable order
var Kinds = []Kind{KindNews, KindLink, KindAdvanced, KindPrivacy, KindDeepfake}

// ParseKind maps a client-supplied type onto a Kind.
// Matching is case-insensitive; "news_advanced" is accepted as an alias
// for advanced, and empty or unknown values fall back to news.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "link":
		return KindLink
	case "advanced", "news_advanced":
		return KindAdvanced
	case "privacy":
		return KindPrivacy
	case "deepfake":
		return KindDeepfake
	default:
		return KindNews
	}
}

// UsesMisinformationHeuristics reports whether the kind is scored with the
// term-list misinformation heuristics (news, link, advanced).
func (k Kind) UsesMisinformationHeuristics() bool {
	return k == KindNews || k == KindLink || k == KindAdvanced
}

// RequiresEvidence reports whether model verdicts for this kind must cite
// at least one piece of evidence.
func (k Kind) RequiresEvidence() bool {
	return k.UsesMisinformationHeuristics()
}

// Request is a single analysis request. It is immutable once built.
type Request struct {
	// Content is text, a URL, or (for deepfake) the file name of the upload
	Content string `json:"text"`

	// Kind selects the analysis contract
	Kind Kind `json:"type"`

	// ImageData is a base64 image payload, optionally prefixed with
	// "data:<mime>;base64,"
	ImageData string `json:"image_data,omitempty"`

	// MIMEType of the image payload (optional)
	MIMEType string `json:"mime_type,omitempty"`
}

// Input is a request after preparation: the kind is resolved, URLs are
// replaced by page text, and image payloads are decoded.
type Input struct {
	Kind Kind

	// Content is the text to analyze (or the file name for deepfake)
	Content string

	// URL is the submitted address when Content came from a fetched page
	URL string

	// Placeholder is set when Content stands in for a page that could not
	// be retrieved
	Placeholder bool

	// Image holds decoded image bytes for deepfake analysis
	Image []byte

	// MIMEType of Image
	MIMEType string
}

// HasImage reports whether decoded image bytes are present
func (in Input) HasImage() bool {
	return len(in.Image) > 0
}
