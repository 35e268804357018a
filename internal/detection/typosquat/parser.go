package typosquat

import (
	"net/url"
	"strings"
)

// genericSLDs are second-level labels that carry no brand information
// (example.co.uk, example.com.au). When the second-to-last label is one of
// these and at least three labels exist, the registrable label is the
// third-from-last.
var genericSLDs = map[string]bool{
	"co":  true,
	"com": true,
	"org": true,
	"net": true,
	"gov": true,
	"edu": true,
}

// extractHostname parses a raw URL into a lowercase hostname. A missing
// scheme is treated as https. Returns "" for anything that cannot be parsed;
// callers treat that as "cannot analyze", never as an error.
func extractHostname(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// baseLabel extracts the registrable, brand-identifying label of a hostname.
func baseLabel(hostname string) string {
	labels := strings.Split(hostname, ".")
	n := len(labels)
	if n < 2 {
		return hostname
	}
	if n >= 3 && genericSLDs[labels[n-2]] {
		return labels[n-3]
	}
	return labels[n-2]
}

// tld returns the last dot-delimited label. Compound TLDs (co.uk) are not
// special-cased here even though baseLabel handles them; the suspicious-TLD
// table only contains single-label entries, so the asymmetry is harmless but
// known.
func tld(hostname string) string {
	labels := strings.Split(hostname, ".")
	return labels[len(labels)-1]
}
