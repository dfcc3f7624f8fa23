package schema

import "sort"

// SuggestionThreshold is the minimum similarity for a near-miss hint.
const SuggestionThreshold = 0.8

// Closest returns the candidate most similar to s, provided the similarity is
// at least threshold. Ties resolve to the lexically smaller candidate.
func Closest(s string, candidates []string, threshold float64) (string, float64, bool) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestScore := "", 0.0
	for _, c := range sorted {
		if score := similarity(s, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == "" || bestScore < threshold {
		return "", bestScore, false
	}
	return best, bestScore, true
}

// SuggestCounty returns a known county close to an unrecognized one.
func SuggestCounty(raw string) (string, bool) {
	if _, ok := CountyName(raw); ok {
		return "", false
	}
	key := countyKey(raw)
	if key == "" {
		return "", false
	}
	c, _, ok := Closest(key, knownCounties(), SuggestionThreshold)
	if !ok {
		return "", false
	}
	return titleCase(c), true
}

// SuggestLab returns a known lab close to an unrecognized one.
func SuggestLab(raw string) (string, bool) {
	if _, ok := LabAddress(raw); ok {
		return "", false
	}
	key := labKey(raw)
	if key == "" {
		return "", false
	}
	l, _, ok := Closest(key, knownLabs(), SuggestionThreshold)
	return l, ok
}

// levenshteinDistance computes the Levenshtein edit distance between two strings.
// This is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to transform string a into string b.
func levenshteinDistance(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)
	aLen := len(aRunes)
	bLen := len(bRunes)

	if aLen == 0 {
		return bLen
	}
	if bLen == 0 {
		return aLen
	}

	// Iterate over the shorter string in the inner loop.
	if aLen > bLen {
		aRunes, bRunes = bRunes, aRunes
		aLen, bLen = bLen, aLen
	}

	prevRow := make([]int, aLen+1)
	currRow := make([]int, aLen+1)
	for i := 0; i <= aLen; i++ {
		prevRow[i] = i
	}

	for j := 1; j <= bLen; j++ {
		currRow[0] = j
		for i := 1; i <= aLen; i++ {
			cost := 1
			if aRunes[i-1] == bRunes[j-1] {
				cost = 0
			}
			currRow[i] = min(prevRow[i]+1, currRow[i-1]+1, prevRow[i-1]+cost)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[aLen]
}

// similarity is 1 - distance/maxLen, between 0.0 and 1.0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}
