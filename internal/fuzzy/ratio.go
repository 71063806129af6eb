// Package fuzzy implements the string similarity measure used for supplier
// and category resolution: the classic Ratcliff/Obershelp ratio over matching
// blocks, 2*M / (len(a)+len(b)).
package fuzzy

// Ratio returns the similarity of a and b in [0, 1]. Equal strings score 1;
// two empty strings also score 1.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}
	matched := matchingTotal(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingTotal sums the lengths of the longest common blocks, recursing into
// the unmatched regions on either side.
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingTotal(a[:ai], b[:bi])
	total += matchingTotal(a[ai+size:], b[bi+size:])
	return total
}

func longestMatch(a, b []rune) (ai, bi, size int) {
	// j2len[j] holds the length of the match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := range a {
		next := make(map[int]int)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return ai, bi, size
}

// ClosestMatch returns the candidate most similar to target along with its
// ratio, considering only candidates scoring at least cutoff. ok is false
// when no candidate clears the cutoff.
func ClosestMatch(target string, candidates []string, cutoff float64) (best string, score float64, ok bool) {
	for _, c := range candidates {
		if r := Ratio(target, c); r >= cutoff && r > score {
			best, score, ok = c, r, true
		}
	}
	return best, score, ok
}
