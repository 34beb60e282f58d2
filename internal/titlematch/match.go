package titlematch

import "slices"

// IsSimilar reports whether candidate has as many tokens as reference and
// contains every reference token at least once.
//
// Duplicate counts are not compared: ["a","a"] is similar to ["a","b"].
func IsSimilar(reference, candidate []string) bool {
	if len(reference) != len(candidate) {
		return false
	}
	for _, tok := range reference {
		if !slices.Contains(candidate, tok) {
			return false
		}
	}
	return true
}
