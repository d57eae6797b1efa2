package align

import "github.com/mgpai22/moodboard/internal/transcript"

// Similarity returns the 0-100 Indel ratio of the normalized forms of a and
// b: 200*LCS / (len(a)+len(b)), counted in runes. It is symmetric and two
// empty strings score 100.
func Similarity(a, b string) float64 {
	return ratio(transcript.Normalize(a), transcript.Normalize(b))
}

// ratio is Similarity for inputs that are already normalized.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	if a == b {
		return 100
	}
	return float64(200*lcsLength(ra, rb)) / float64(total)
}

// length of the longest common subsequence, two-row DP
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
