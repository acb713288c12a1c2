package normalize

// Token-level name similarity, used to decide whether two records
// sharing a product key plausibly describe the same product. Exact
// token matches count fully; near-matches (edit distance 1 on tokens of
// five or more runes) count as matches so singular/plural and minor
// spelling drift across retailers do not trigger collision review.

// fuzzyTokenMinLen is the minimum token length eligible for fuzzy
// equality. Short tokens ("cat" vs "car") differ too easily.
const fuzzyTokenMinLen = 5

// Similarity returns the Jaccard similarity of the token sets of two
// names, with fuzzy token equality. Result is in [0, 1]; identical
// names give 1, fully disjoint names give 0. Empty names give 0.
func Similarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	matched := make([]bool, len(tb))
	intersection := 0
	for _, tok := range ta {
		for j, other := range tb {
			if matched[j] {
				continue
			}
			if tokensMatch(tok, other) {
				matched[j] = true
				intersection++
				break
			}
		}
	}

	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// tokensMatch reports exact equality, or edit distance <= 1 for tokens
// long enough to make a single-character difference insignificant.
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < fuzzyTokenMinLen || len(b) < fuzzyTokenMinLen {
		return false
	}
	return levenshtein(a, b) <= 1
}

// levenshtein computes edit distance with the classic two-row dynamic
// programming table.
func levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
