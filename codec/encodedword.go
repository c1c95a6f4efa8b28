package codec

import (
	"strings"
)

// Word is one (charset, decoded-bytes) pair produced by decoding RFC 2047
// encoded words (or plain ASCII text, tagged "us-ascii") from a header text
// context. A Text field value is a sequence of Words whose concatenation
// yields the logical string.
type Word struct {
	Charset string
	Text    []byte
}

// ewOpen/ewClose delimit "=?charset?enc?text?=".
const ewOpen = "=?"
const ewClose = "?="

// DecodeWords scans s, a raw (still-folded-whitespace-collapsed) header
// value, for RFC 2047 encoded words interspersed with literal text, and
// returns the sequence of Words that reconstruct it.
//
// Per RFC 2047 6.2, whitespace between two adjacent encoded words is part
// of the folding syntax, not part of the value, and is discarded; adjacent
// encoded words in the same charset are merged into one Word rather than
// producing a separate whitespace Word. Whitespace between plain text and an
// encoded word is kept. A malformed encoded-word token (bad charset, bad
// encoding letter, undecodable payload) is emitted verbatim as a single Word
// tagged "us-ascii" rather than causing an error, per spec.md 4.1.
func DecodeWords(s string) []Word {
	var words []Word
	i := 0
	pendingWS := "" // whitespace gap after an encoded word, not yet committed
	prevEncoded := false
	for i < len(s) {
		start := strings.Index(s[i:], ewOpen)
		if start < 0 {
			if i < len(s) {
				words = appendText(words, pendingWS+s[i:])
			}
			return words
		}
		start += i
		if lit := s[i:start]; lit != "" {
			// Defer a whitespace-only gap after an encoded word: if what
			// follows decodes as an encoded word too, the gap is dropped.
			if prevEncoded && allWS(lit) {
				pendingWS = lit
			} else {
				words = appendText(words, lit)
				prevEncoded = false
			}
		}

		w, n, ok := decodeOneWord(s[start:])
		if !ok {
			// The malformed token runs to the next whitespace or "=?".
			tok := s[start:]
			if j := strings.IndexAny(tok, " \t"); j >= 0 {
				tok = tok[:j]
			}
			if j := strings.Index(tok[len(ewOpen):], ewOpen); j >= 0 {
				tok = tok[:len(ewOpen)+j]
			}
			words = appendText(words, pendingWS+tok)
			pendingWS = ""
			prevEncoded = false
			i = start + len(tok)
			continue
		}
		if prevEncoded && words[len(words)-1].Charset == w.Charset {
			// Merge into the previous word of the same charset so that
			// "=?x?Q?a?= =?x?Q?b?=" decodes as a single logical word per
			// RFC 2047 6.2, rather than as two words separated by a space.
			words[len(words)-1].Text = append(words[len(words)-1].Text, w.Text...)
		} else {
			words = append(words, w)
		}
		pendingWS = ""
		prevEncoded = true
		i = start + n
	}
	return words
}

func appendText(words []Word, s string) []Word {
	if s == "" {
		return words
	}
	return append(words, Word{Charset: "us-ascii", Text: []byte(s)})
}

func allWS(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// decodeOneWord attempts to decode the encoded word starting at s[0:]
// ("=?..."). It returns the decoded Word, the number of bytes of s consumed,
// and whether decoding succeeded.
func decodeOneWord(s string) (Word, int, bool) {
	if !strings.HasPrefix(s, ewOpen) {
		return Word{}, 0, false
	}
	end := strings.Index(s[len(ewOpen):], ewClose)
	if end < 0 {
		return Word{}, 0, false
	}
	end += len(ewOpen)
	body := s[2:end] // "charset?enc?text"
	parts := strings.SplitN(body, "?", 3)
	if len(parts) != 3 {
		return Word{}, 0, false
	}
	charset, enc, text := parts[0], parts[1], parts[2]
	if charset == "" || len(enc) != 1 {
		return Word{}, 0, false
	}

	var decoded []byte
	switch enc[0] {
	case 'Q', 'q':
		decoded = QDecode(text)
	case 'B', 'b':
		decoded = B64Decode(text)
	default:
		return Word{}, 0, false
	}
	return Word{Charset: charset, Text: decoded}, end + len(ewClose), true
}

// EncodeWord renders a single Word as an RFC 2047 encoded word using enc
// ('Q' or 'B'). Literal ASCII-only Words with charset "us-ascii" are
// returned unencoded by the caller (EncodeWord always wraps; callers decide
// whether wrapping is needed).
func EncodeWord(w Word, enc byte) string {
	var payload string
	switch enc {
	case 'B', 'b':
		payload = b64Unwrapped(w.Text)
	default:
		payload = QEncode(w.Text)
	}
	return ewOpen + w.Charset + "?" + string(enc) + "?" + payload + ewClose
}

// ChooseEncoding applies spec.md 4.5's B-vs-Q heuristic: B is chosen iff
// more than 33% of the word's bytes would require "=HH" quoting under Q.
func ChooseEncoding(text []byte) byte {
	if len(text) == 0 {
		return 'Q'
	}
	quoted := 0
	for _, b := range text {
		if QByteNeedsQuoting(b) {
			quoted++
		}
	}
	if float64(quoted)/float64(len(text)) > 0.33 {
		return 'B'
	}
	return 'Q'
}
