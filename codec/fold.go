// Package codec implements the low-level octet primitives RFC 5322/2045/2047
// header and body encoding relies on: line folding, RFC 2047 encoded words,
// Q and B encodings, quoted-printable, base64, and RFC 2231 parameter
// continuations.
package codec

import "regexp"

// MaxRecommendedLineLen and MaxLineLen are RFC 5322 2.1.1's "SHOULD be no
// more than" and "MUST be no more than" line length limits, excluding the
// terminator.
const (
	MaxRecommendedLineLen = 78
	MaxLineLen            = 998
)

// foldRegexp matches any number of space or tab characters followed by one
// or more non-space/tab characters: a "word" in the folding sense, kept
// together by Fold.
var foldRegexp = regexp.MustCompile(`[ \t]*[^ \t]+`)

// Fold wraps unfolded across multiple lines, each terminated with term
// ("\r\n" or "\n"), such that no line exceeds MaxRecommendedLineLen octets
// where a break point exists. See RFC 5322 2.2.3, "Long Header Fields".
//
// unfolded is expected to already include its field name and colon, e.g.
// "Subject: hello there". The returned lines are ready to be written
// verbatim.
func Fold(unfolded, term string) []string {
	var folded []string
	for _, p := range foldRegexp.FindAllString(unfolded, -1) {
		switch {
		case len(folded) == 0:
			folded = append(folded, p)
		case len(folded[len(folded)-1])+len(p) <= MaxRecommendedLineLen:
			folded[len(folded)-1] += p
		default:
			folded[len(folded)-1] += term
			folded = append(folded, p)
		}
	}
	if len(folded) > 0 {
		folded[len(folded)-1] += term
	}
	return folded
}

// Unfold reverses folding: it joins continuation lines onto the prior line.
// lines must already have their terminators stripped. Per RFC 5322 2.2.3,
// unfolding replaces each CRLF immediately followed by WSP with nothing,
// leaving the WSP itself intact, so the continuation line's own leading
// whitespace is what's preserved. Unfold only concatenates the given lines;
// it does not strip terminators or split a single string on embedded
// line breaks.
func Unfold(lines []string) string {
	s := ""
	for _, l := range lines {
		s += l
	}
	return s
}
