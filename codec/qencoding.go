package codec

import (
	"strings"
)

// qSafe reports whether b can appear literally in a Q-encoded word without
// quoting. RFC 2047 4.2 allows "any character representation except those
// it specifically excludes, including (SPACE), (CR), (LF) and the special
// characters for the encoded-word header it appears in"; in practice
// implementations restrict themselves to RFC 2045's "token" characters
// minus a few that double as encoded-word delimiters.
func qSafe(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '!' || b == '*' || b == '+' || b == '-' || b == '/':
		return true
	default:
		return false
	}
}

// QEncode encodes b using RFC 2047's Q encoding: letters, digits and
// "!*+-/" pass through, space becomes '_', and anything else (including
// other printable ASCII) becomes "=HH".
func QEncode(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == ' ':
			sb.WriteByte('_')
		case qSafe(c):
			sb.WriteByte(c)
		default:
			sb.WriteByte('=')
			sb.WriteByte(hexDigit(c >> 4))
			sb.WriteByte(hexDigit(c & 0xf))
		}
	}
	return sb.String()
}

// QDecode decodes an RFC 2047 Q-encoded string: '_' becomes space and
// "=HH" becomes one octet. Malformed "=HH" sequences are passed through as
// literal text per §4.1 of the RFC's intent that decoding be tolerant;
// the codec never fails, matching the spec's "decoding failures leave the
// raw token" policy one level up (in the encoded-word layer).
func QDecode(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '_':
			out = append(out, ' ')
		case c == '=' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			out = append(out, hexVal(s[i+1])<<4|hexVal(s[i+2]))
			i += 2
		default:
			out = append(out, c)
		}
	}
	return out
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + n - 10
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// QByteNeedsQuoting reports whether b would need "=HH" quoting under Q
// encoding; used by the generator's B-vs-Q heuristic (spec.md 4.5).
func QByteNeedsQuoting(b byte) bool {
	return b != ' ' && !qSafe(b)
}
