package typosquat

// Rule is a single normalization substitution. Rules are applied to the whole
// label in declaration order, each exactly once, after lowercasing. The order
// matters: chained patterns may normalize further than a single pass over a
// Unicode confusables table would.
type Rule struct {
	Pattern     string
	Replacement string
}

// Config holds the immutable reference data the engine matches against.
// A Config is read-only after construction, so a single Engine may be shared
// by any number of goroutines.
type Config struct {
	// Brands are the protected brand labels, lowercase, in priority order.
	// The first brand that produces a signal wins ties.
	Brands []string

	// HomoglyphRules fold visually-confusable characters back to their
	// Latin counterparts.
	HomoglyphRules []Rule

	// SuspiciousTLDs are TLDs with low registration cost and high abuse
	// rates. They only ever add a bonus on top of a brand match.
	SuspiciousTLDs []string
}

// DefaultBrands is the built-in protected brand list. Order is part of the
// contract: the first qualifying brand is the one reported.
var DefaultBrands = []string{
	"google",
	"facebook",
	"amazon",
	"apple",
	"microsoft",
	"paypal",
	"netflix",
	"instagram",
	"twitter",
	"linkedin",
	"github",
	"chase",
	"wellsfargo",
	"bankofamerica",
}

// DefaultHomoglyphRules covers digit, symbol and multi-character look-alikes.
// Declaration order is the application order.
var DefaultHomoglyphRules = []Rule{
	{"0", "o"},
	{"1", "l"},
	{"3", "e"},
	{"4", "a"},
	{"5", "s"},
	{"7", "t"},
	{"8", "b"},
	{"9", "g"},
	{"@", "a"},
	{"$", "s"},
	{"rn", "m"},
	{"vv", "w"},
}

// DefaultSuspiciousTLDs mirrors the high-risk TLD list used for URL
// characteristic checks across the threat feeds.
var DefaultSuspiciousTLDs = []string{
	"xyz", "top", "club", "work", "click", "link",
	"gq", "ml", "cf", "tk", "ga", "buzz", "icu",
}

// DefaultConfig returns the built-in reference tables.
func DefaultConfig() Config {
	return Config{
		Brands:         DefaultBrands,
		HomoglyphRules: DefaultHomoglyphRules,
		SuspiciousTLDs: DefaultSuspiciousTLDs,
	}
}
