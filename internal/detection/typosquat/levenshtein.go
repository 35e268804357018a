package typosquat

// editDistance computes the Levenshtein distance between two strings, with
// insertions, deletions and substitutions each costing 1. The full
// (len(a)+1) x (len(b)+1) table is built; DNS label limits keep the inputs
// small enough that the quadratic table is a non-issue.
func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	rows := len(ra) + 1
	cols := len(rb) + 1

	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		table[i][0] = i
	}
	for j := 1; j < cols; j++ {
		table[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			table[i][j] = minOf(
				table[i-1][j]+1,      // deletion
				table[i][j-1]+1,      // insertion
				table[i-1][j-1]+cost, // substitution
			)
		}
	}

	return table[rows-1][cols-1]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
