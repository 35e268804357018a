package typosquat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"google", "google", 0},
		{"gooogle", "google", 1},
		{"gogle", "google", 1},
		{"googel", "google", 2},
		{"paypal", "paypa1", 1},
		{"kitten", "sitting", 3},
		{"amazon", "netflix", 7},
	}

	for _, c := range cases {
		require.Equal(t, c.want, editDistance(c.a, c.b), "editDistance(%q, %q)", c.a, c.b)
	}
}

func TestEditDistanceIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "paypal", "a-very-long-label-with-dashes"} {
		require.Zero(t, editDistance(s, s))
	}
}

func TestEditDistanceSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"google", "gooogle"},
		{"paypal", "paypal-secure"},
		{"", "microsoft"},
		{"chase", "chasse"},
	}
	for _, p := range pairs {
		require.Equal(t, editDistance(p[0], p[1]), editDistance(p[1], p[0]))
	}
}
