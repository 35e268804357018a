package typosquat

import "strings"

// Fixed risk contributions per signal. Signals accumulate and the total is
// clamped at 100; corroborating evidence is meant to compound.
const (
	scoreSubdomainTrick = 80
	scoreTypo           = 70
	scoreEmbedding      = 60
	scoreHomograph      = 90
	scoreSuspiciousTLD  = 20

	maxTypoDistance = 2
)

// checkSubdomainTrick detects brand.com.evil.tld style hostnames, where a
// protected brand appears in a subdomain label to fake a legitimate origin.
// Only hostnames with more than three labels qualify; the last two labels
// (registrable domain + TLD) are excluded from the scan. The first brand in
// declaration order that matches any label wins.
func checkSubdomainTrick(hostname string, brands []string) (string, bool) {
	labels := strings.Split(hostname, ".")
	if len(labels) <= 3 {
		return "", false
	}
	scan := labels[:len(labels)-2]
	for _, brand := range brands {
		for _, label := range scan {
			if label == brand || strings.Contains(label, brand) {
				return brand, true
			}
		}
	}
	return "", false
}

// embedsBrand reports whether the raw base label strictly contains a brand
// without being equal to it. Catches "paypal-secure" style labels that edit
// distance would score as far apart.
func embedsBrand(base, brand string) bool {
	return base != brand && strings.Contains(base, brand)
}

// isSuspiciousTLD checks membership in the suspicious-TLD table.
func isSuspiciousTLD(t string, tlds []string) bool {
	for _, s := range tlds {
		if t == s {
			return true
		}
	}
	return false
}
