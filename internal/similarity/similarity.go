// Package similarity scores name resemblance between a mention and a
// catalog candidate.
package similarity

import (
	"strings"

	"github.com/Antagata/Month-recap-AVU/internal/normalize"
)

// Score returns a similarity ratio in [0,1] between two raw names. Both
// sides are normalized first. The base score is a symmetric LCS ratio;
// substring containment floors the result at 0.8 so a short mention still
// matches a longer catalog name. The floor never lowers an exact match.
func Score(a, b string) float64 {
	na := normalize.Name(a)
	nb := normalize.Name(b)
	if na == "" || nb == "" {
		return 0
	}

	ratio := lcsRatio(na, nb)
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		if ratio < 0.8 {
			return 0.8
		}
	}
	return ratio
}

// lcsRatio is 2*LCS(a,b) / (len(a)+len(b)) over runes: 1.0 for identical
// strings, 0 for disjoint ones.
func lcsRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// Single-row DP over the shorter string.
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
