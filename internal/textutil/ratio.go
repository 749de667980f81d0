// file: internal/textutil/ratio.go
// version: 1.0.0
// guid: 8c2d4e6f-1a3b-4c5d-9e7f-0b2a4c6d8e1f

package textutil

// Ratio computes a symmetric similarity between a and b after normalization.
// It is the classic sequence-matcher ratio: twice the total length of the
// matching blocks divided by the combined length of both strings, in [0,1].
//
// Two empty (or whitespace-only) inputs are defined to be identical and
// return 1.0; the general formula is 0/0 for that case, so the behavior is
// pinned here and covered by tests.
func Ratio(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchingTotal(a, b)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

type span struct {
	alo, ahi, blo, bhi int
}

// matchingTotal sums the lengths of all matching blocks: find the longest
// common substring, then recurse on the pieces to its left and right.
func matchingTotal(a, b string) int {
	total := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		sp := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b, sp)
		if k == 0 {
			continue
		}
		total += k
		queue = append(queue,
			span{sp.alo, i, sp.blo, j},
			span{i + k, sp.ahi, j + k, sp.bhi},
		)
	}
	return total
}

// longestMatch finds the longest common substring of a[alo:ahi] and
// b[blo:bhi], preferring the earliest occurrence in a, then in b.
func longestMatch(a, b string, sp span) (besti, bestj, bestk int) {
	besti, bestj = sp.alo, sp.blo
	j2len := make(map[int]int)
	for i := sp.alo; i < sp.ahi; i++ {
		next := make(map[int]int)
		for j := sp.blo; j < sp.bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
