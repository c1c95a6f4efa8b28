package field

import (
	"strings"

	"github.com/mimekit/mimekit/codec"
)

// Text is a header value expressed as a sequence of (charset, bytes) words,
// per spec.md 3: concatenating the decoded bytes of each word (after
// transcoding to a common charset, a caller concern — see the charset
// package) yields the logical string. Used for Subject, Comments, Keywords,
// and Content-Location.
type Text struct {
	Words []codec.Word
}

// NewText builds a single-word, us-ascii Text from a plain Go string. Most
// callers constructing header values by hand want this rather than
// assembling codec.Word slices themselves.
func NewText(s string) Text {
	return Text{Words: []codec.Word{{Charset: "us-ascii", Text: []byte(s)}}}
}

// String concatenates the raw bytes of every word without transcoding;
// it's only meaningful when every word is already in a common charset
// (typically us-ascii or utf-8). Callers that need cross-charset text
// normalized to a single encoding should use charset.Transcoder instead.
func (t Text) String() string {
	var sb strings.Builder
	for _, w := range t.Words {
		sb.Write(w.Text)
	}
	return sb.String()
}

func parseText(raw string) (Value, error) {
	return Text{Words: codec.DecodeWords(raw)}, nil
}

// Generate renders each word either literally (if it's plain ASCII
// requiring no protection) or as an RFC 2047 encoded word, choosing B vs Q
// per spec.md 4.5's heuristic (codec.ChooseEncoding).
func (t Text) Generate() string {
	var parts []string
	for _, w := range t.Words {
		if isPlainAscii(w) {
			parts = append(parts, string(w.Text))
			continue
		}
		parts = append(parts, codec.EncodeWord(w, codec.ChooseEncoding(w.Text)))
	}
	return strings.Join(parts, " ")
}

// isPlainAscii reports whether w can be emitted verbatim: us-ascii charset,
// every byte printable (33-126) or a plain space, and no "=?" sequence that
// would be misread as the start of an encoded word.
func isPlainAscii(w codec.Word) bool {
	if !strings.EqualFold(w.Charset, "us-ascii") {
		return false
	}
	for _, b := range w.Text {
		if b != ' ' && (b < 33 || b > 126) {
			return false
		}
	}
	return !strings.Contains(string(w.Text), "=?")
}
