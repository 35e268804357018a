package typosquat

import "strings"

// normalize folds homoglyphs in a label back to their canonical Latin form.
// Each rule is applied over the whole label exactly once, in declaration
// order. "g00gle" becomes "google", "paypa1" becomes "paypal", "rnicrosoft"
// becomes "microsoft".
func normalize(label string, rules []Rule) string {
	out := strings.ToLower(label)
	for _, r := range rules {
		out = strings.ReplaceAll(out, r.Pattern, r.Replacement)
	}
	return out
}
