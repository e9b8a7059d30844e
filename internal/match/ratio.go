package match

// Ratio returns a character-level sequence similarity between two strings in
// [0,1], computed as 2*M/T where M is the total size of matched blocks and T
// the combined length. Matched blocks are found by recursively taking the
// longest common substring, the same measure difflib's SequenceMatcher uses.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matched := totalMatched(ra, rb)
	return 2 * float64(matched) / float64(total)
}

func totalMatched(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		totalMatched(a[:ai], b[:bi]) +
		totalMatched(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring of a and b, returning its
// start offsets and length. Earlier matches win ties, keeping the block
// decomposition stable.
func longestMatch(a, b []rune) (besti, bestj, bestsize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i, r := range a {
		newj2len := make(map[int]int)
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
