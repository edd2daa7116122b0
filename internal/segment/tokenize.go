package segment

import (
	"strings"
	"unicode"
)

// Tokenize splits source text into word and punctuation segments, excluding
// whitespace, preserving source order. It is the local fallback used when the
// language service returns nothing usable, so the reading view can still be
// driven in a degraded mode (no per-word translations).
func Tokenize(text string) []Segment {
	var segs []Segment
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			segs = append(segs, Segment{Text: word.String(), IsWord: true})
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			word.WriteRune(r)
		default:
			flush()
			segs = append(segs, Segment{Text: string(r)})
		}
	}
	flush()

	return segs
}
