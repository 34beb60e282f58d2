// Package embeds finds and rewrites timestamped image embeds in Markdown.
package embeds

import "regexp"

// PastedLabel prefixes the timestamp in canonical pasted-image embeds.
const PastedLabel = "Pasted image"

// timestampEmbedRe matches ![[...]] embeds whose target starts with a
// 14-digit timestamp and ends in a file extension. The target cannot
// contain ']' or a line break, so one match never spans two embeds or lines.
var timestampEmbedRe = regexp.MustCompile(`!\[\[(\d{14}[^\]\n]*?\.\w+)\]\]`)

// Embed is a single timestamped embed found in a note.
type Embed struct {
	// Original is the embed exactly as written, e.g. "![[20230101123456.png]]".
	Original string `json:"original"`
	// Target is the file the embed points at.
	Target string `json:"target"`
	// Canonical is what Rewrite turns Original into.
	Canonical string `json:"canonical"`
	// Offset is the byte offset of Original in the text.
	Offset int `json:"offset"`
}

// Find lists the embeds Rewrite would replace, in document order.
func Find(text string) []Embed {
	locs := timestampEmbedRe.FindAllStringSubmatchIndex(text, -1)
	out := make([]Embed, 0, len(locs))
	for _, loc := range locs {
		target := text[loc[2]:loc[3]]
		out = append(out, Embed{
			Original:  text[loc[0]:loc[1]],
			Target:    target,
			Canonical: canonical(target),
			Offset:    loc[0],
		})
	}
	return out
}

// Rewrite replaces every timestamped embed with its canonical
// "![[Pasted image <target>]]" form in a single pass and reports whether
// the text changed.
func Rewrite(text string) (string, bool) {
	updated := timestampEmbedRe.ReplaceAllString(text, "![["+PastedLabel+" ${1}]]")
	return updated, updated != text
}

func canonical(target string) string {
	return "![[" + PastedLabel + " " + target + "]]"
}
