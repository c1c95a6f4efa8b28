package codec

import "encoding/base64"

// B64Encode encodes b as base64 (RFC 2045 6.8), wrapped at
// MaxRecommendedLineLen octets per line, CRLF-terminated.
func B64Encode(b []byte) []byte {
	enc := base64.StdEncoding.EncodeToString(b)
	var out []byte
	for len(enc) > 0 {
		n := MaxRecommendedLineLen
		if n > len(enc) {
			n = len(enc)
		}
		out = append(out, enc[:n]...)
		out = append(out, '\r', '\n')
		enc = enc[n:]
	}
	return out
}

// B64Decode decodes base64 body text, ignoring interleaved whitespace and
// line breaks as RFC 2045 6.8 requires decoders to do. Bytes outside the
// base64 alphabet are dropped rather than treated as an error, matching the
// parser's permissive-input policy (spec.md 7).
func B64Decode(s string) []byte {
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isBase64Char(c) {
			clean = append(clean, c)
		}
	}
	// Trim to a multiple of 4 by dropping trailing garbage one padding
	// attempt at a time; base64.StdEncoding.DecodeString reports an error
	// on truncated input, so fall back to the largest valid prefix.
	for len(clean) > 0 {
		if out, err := base64.StdEncoding.DecodeString(string(clean)); err == nil {
			return out
		}
		clean = clean[:len(clean)-1]
	}
	return nil
}

// b64Unwrapped encodes b as a single unwrapped base64 run, for use inside
// an RFC 2047 encoded word where embedded line breaks are not permitted.
func b64Unwrapped(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func isBase64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+' || c == '/' || c == '=':
		return true
	default:
		return false
	}
}
