package reputation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

// DefaultTrustedDomains are established outlets and institutions
var DefaultTrustedDomains = []string{
	"bbc.com",
	"bbc.co.uk",
	"reuters.com",
	"apnews.com",
	"npr.org",
	"nytimes.com",
	"washingtonpost.com",
	"theguardian.com",
	"wsj.com",
	"bloomberg.com",
	"economist.com",
	"aljazeera.com",
	"cnn.com",
	"pbs.org",
	"nature.com",
	"science.org",
	"who.int",
	"cdc.gov",
	"nih.gov",
	"nasa.gov",
	"snopes.com",
	"factcheck.org",
	"politifact.com",
}

// DefaultSuspiciousPatterns are URL shorteners and sensational keywords
// commonly found in low-credibility domains
var DefaultSuspiciousPatterns = []string{
	"bit.ly",
	"tinyurl",
	"goo.gl",
	"ow.ly",
	"is.gd",
	"buff.ly",
	"shorturl",
	"cutt.ly",
	"rebrand.ly",
	"fake",
	"hoax",
	"clickbait",
	"conspiracy",
	"viral",
	"shocking",
	"truth-",
	"-truth",
	"breaking-news",
	"infowars",
	"naturalnews",
	"beforeitsnews",
}

const (
	trustedConfidence    = 0.85
	suspiciousConfidence = 0.75
	neutralConfidence    = 0.6
)

// Verdict is the reputation classification of a domain
type Verdict struct {
	Status     string
	Confidence float64
	Reason     string
}

// Checker classifies domains against an allow-list and a suspicious-pattern
// list. The allow-list always wins.
type Checker struct {
	trusted    []string
	suspicious []string
}

// NewChecker creates a checker. Empty config lists fall back to the
// built-in defaults.
func NewChecker(config *model.ReputationConfig) *Checker {
	c := &Checker{
		trusted:    DefaultTrustedDomains,
		suspicious: DefaultSuspiciousPatterns,
	}
	if config != nil {
		if len(config.TrustedDomains) > 0 {
			c.trusted = lowerAll(config.TrustedDomains)
		}
		if len(config.SuspiciousPatterns) > 0 {
			c.suspicious = lowerAll(config.SuspiciousPatterns)
		}
	}
	return c
}

// Classify classifies a bare domain (scheme, www. prefix and port are
// tolerated and stripped)
func (c *Checker) Classify(domain string) Verdict {
	host := NormalizeDomain(domain)

	for _, trusted := range c.trusted {
		if strings.Contains(host, trusted) {
			return Verdict{
				Status:     model.StatusTrustedSource,
				Confidence: trustedConfidence,
				Reason:     fmt.Sprintf("Domain %s is a recognized reputable source.", host),
			}
		}
	}

	for _, pattern := range c.suspicious {
		if strings.Contains(host, pattern) {
			return Verdict{
				Status:     model.StatusSuspiciousSource,
				Confidence: suspiciousConfidence,
				Reason:     fmt.Sprintf("Domain %s matches suspicious pattern %q (URL shortener or sensational domain).", host, pattern),
			}
		}
	}

	return Verdict{
		Status:     model.StatusNeutralSource,
		Confidence: neutralConfidence,
		Reason:     fmt.Sprintf("Domain %s has no known reputation; treat claims with ordinary caution.", host),
	}
}

// ClassifyURL classifies the host of a URL
func (c *Checker) ClassifyURL(rawURL string) Verdict {
	return c.Classify(HostOf(rawURL))
}

// HostOf extracts the host of a URL, or returns the input unchanged when it
// does not parse as one
func HostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// NormalizeDomain lowercases a domain and strips scheme, www. prefix, port,
// path and trailing dot
func NormalizeDomain(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
