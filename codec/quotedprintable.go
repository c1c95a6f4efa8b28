package codec

// QPEncode encodes b as quoted-printable per RFC 2045 6.7, soft-wrapping at
// MaxRecommendedLineLen so body encoders never need to re-wrap.
func QPEncode(b []byte) []byte {
	var out []byte
	lineLen := 0
	emit := func(bs ...byte) {
		if lineLen+len(bs) > MaxRecommendedLineLen-1 { // leave room for the soft break "="
			out = append(out, '=', '\r', '\n')
			lineLen = 0
		}
		out = append(out, bs...)
		lineLen += len(bs)
	}
	for i, c := range b {
		switch {
		case c == '\t':
			emit(c)
		case c == '\n':
			out = append(out, '\r', '\n')
			lineLen = 0
		case c == '\r':
			// Swallowed; a following '\n' (if any) emits the CRLF.
			if i+1 >= len(b) || b[i+1] != '\n' {
				out = append(out, '\r', '\n')
				lineLen = 0
			}
		case c == '=' || c < 33 || c > 126:
			emit('=', hexDigit(c>>4), hexDigit(c&0xf))
		default:
			emit(c)
		}
	}
	return out
}

// QPDecode decodes quoted-printable per RFC 2045 6.7. Soft line breaks ("="
// immediately followed by CRLF or LF) are consumed. An illegal "=XX"
// sequence (not followed by two hex digits) is passed through as a literal
// '=' followed by whatever comes next, matching spec.md 4.1's "illegal
// sequences are passed through as literal" rule — QPDecode never returns an
// error.
func QPDecode(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '=' {
			out = append(out, c)
			continue
		}
		switch {
		case i+1 < len(s) && s[i+1] == '\n':
			i++ // soft break, LF only
		case i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n':
			i += 2 // soft break, CRLF
		case i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			out = append(out, hexVal(s[i+1])<<4|hexVal(s[i+2]))
			i += 2
		default:
			out = append(out, '=') // illegal sequence: literal passthrough
		}
	}
	return out
}
