// Package titlematch decides whether two note titles are made of the same words.
package titlematch

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// nonWordRe matches everything that is neither a Cyrillic or Latin letter nor
// whitespace. \p{Z} catches separators such as NBSP that RE2's \s misses.
var nonWordRe = regexp.MustCompile(`[^а-яА-ЯёЁa-zA-Z\s\v\p{Z}]`)

// Tokenize lowercases title, strips everything but Cyrillic and Latin letters,
// and splits the rest on whitespace. Order and duplicates are preserved.
func Tokenize(title string) []string {
	lowered := cases.Lower(language.Und).String(title)
	cleaned := nonWordRe.ReplaceAllString(lowered, "")
	return strings.Fields(cleaned)
}
