package titlematch

// Titled is anything that has a vault path and a display title.
type Titled interface {
	NotePath() string
	NoteTitle() string
}

// Find returns the notes of corpus whose titles are similar to reference's
// title, in corpus order. The note living at reference's path is skipped even
// when its title matches.
func Find[T Titled](reference Titled, corpus []T) []T {
	want := Tokenize(reference.NoteTitle())
	refPath := reference.NotePath()

	var out []T
	for _, n := range corpus {
		if n.NotePath() == refPath {
			continue
		}
		if IsSimilar(want, Tokenize(n.NoteTitle())) {
			out = append(out, n)
		}
	}
	return out
}
