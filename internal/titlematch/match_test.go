package titlematch

import (
	"testing"

	"pgregory.net/rapid"
)

func TestIsSimilar(t *testing.T) {
	cases := []struct {
		name      string
		ref, cand []string
		want      bool
	}{
		{"order irrelevant", []string{"a", "b"}, []string{"b", "a"}, true},
		{"length mismatch", []string{"a", "b"}, []string{"a", "b", "c"}, false},
		{"duplicate reference tokens pass", []string{"a", "a"}, []string{"a", "b"}, true},
		{"duplicate candidate tokens fail", []string{"a", "b"}, []string{"a", "a"}, false},
		{"missing token", []string{"a", "b"}, []string{"a", "c"}, false},
		{"both empty", nil, []string{}, true},
		{"empty against one", nil, []string{"a"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSimilar(tc.ref, tc.cand); got != tc.want {
				t.Errorf("IsSimilar(%q, %q) = %v, want %v", tc.ref, tc.cand, got, tc.want)
			}
		})
	}
}

func wordsGen() *rapid.Generator[[]string] {
	return rapid.SliceOfN(rapid.StringMatching(`[a-zа-я]{1,6}`), 0, 8)
}

func TestIsSimilar_Permutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := wordsGen().Draw(t, "words")
		shuffled := rapid.Permutation(words).Draw(t, "shuffled")
		if !IsSimilar(words, shuffled) {
			t.Fatalf("IsSimilar(%q, %q) = false", words, shuffled)
		}
	})
}

func TestIsSimilar_LengthMismatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := wordsGen().Draw(t, "words")
		extra := rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "extra")
		longer := append(append([]string{}, words...), extra)
		if IsSimilar(words, longer) {
			t.Fatalf("IsSimilar(%q, %q) = true", words, longer)
		}
	})
}
