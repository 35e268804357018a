// Package typosquat decides whether a URL impersonates one of a set of
// protected brand domains. The engine is a pure function of the URL string
// and its reference tables: no network, no DNS, no state between calls.
package typosquat

import "fmt"

// Result is the verdict for a single URL. It is created fresh per call and
// owned by the caller.
type Result struct {
	URL          string   `json:"url"`
	Suspicious   bool     `json:"suspicious"`
	RiskScore    int      `json:"risk_score"`
	Reasons      []string `json:"reasons,omitempty"`
	MatchedBrand string   `json:"matched_brand,omitempty"`
}

// Engine runs the impersonation checks against an immutable Config. Safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the given reference tables. Empty tables
// are allowed; the engine then simply produces no brand-based signals.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// NewDefaultEngine creates an Engine with the built-in tables.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultConfig())
}

// Brands returns the configured brand list.
func (e *Engine) Brands() []string {
	return e.cfg.Brands
}

// Analyze inspects a single URL and returns its verdict.
//
// Signals are evaluated in a fixed order: the subdomain trick first, then one
// pass over the brand list where the first qualifying brand wins (declaration
// order is the tie-break), then the suspicious-TLD bonus, which never fires
// without a matched brand. Scores accumulate and saturate at 100.
//
// Unparseable input yields a clean non-suspicious result rather than an
// error: page scanning has to continue past broken links.
func (e *Engine) Analyze(rawURL string) Result {
	result := Result{URL: rawURL}

	hostname := extractHostname(rawURL)
	if hostname == "" {
		return result
	}

	base := baseLabel(hostname)

	if brand, ok := checkSubdomainTrick(hostname, e.cfg.Brands); ok {
		result.RiskScore += scoreSubdomainTrick
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("hostname hides %q inside its subdomains (%s)", brand, hostname))
		result.MatchedBrand = brand
	}

	normalized := normalize(base, e.cfg.HomoglyphRules)

	for _, brand := range e.cfg.Brands {
		if base == brand {
			// The real domain, not an impersonation of this brand.
			continue
		}

		distance := editDistance(normalized, brand)

		if distance >= 1 && distance <= maxTypoDistance {
			result.RiskScore += scoreTypo
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%q is %d edit(s) away from %q (likely typosquat)", base, distance, brand))
			result.MatchedBrand = brand
			break
		}

		if embedsBrand(base, brand) {
			result.RiskScore += scoreEmbedding
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%q embeds the brand name %q", base, brand))
			result.MatchedBrand = brand
			break
		}

		if distance == 0 && normalized != base {
			result.RiskScore += scoreHomograph
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%q resolves to %q after homograph folding (homograph attack)", base, brand))
			result.MatchedBrand = brand
			break
		}
	}

	if result.MatchedBrand != "" {
		if t := tld(hostname); isSuspiciousTLD(t, e.cfg.SuspiciousTLDs) {
			result.RiskScore += scoreSuspiciousTLD
			result.Reasons = append(result.Reasons,
				fmt.Sprintf(".%s is a high-abuse TLD", t))
		}
	}

	if result.RiskScore > 100 {
		result.RiskScore = 100
	}
	result.Suspicious = len(result.Reasons) > 0

	return result
}
