package field

import "strings"

// EncodingValue is a Content-Transfer-Encoding token (RFC 2045 6.1):
// "7bit", "8bit", "binary", "quoted-printable", "base64", or an
// unrecognized token (carried through verbatim; the body layer, not this
// field layer, is what degrades to raw bytes for an unknown encoding, per
// spec.md 7's KindUnknownEncoding).
type EncodingValue struct {
	Token string
}

const (
	Enc7Bit            = "7bit"
	Enc8Bit            = "8bit"
	EncBinary          = "binary"
	EncQuotedPrintable = "quoted-printable"
	EncBase64          = "base64"
)

// Known reports whether Token is one of the five standard encodings.
func (e EncodingValue) Known() bool {
	switch strings.ToLower(e.Token) {
	case Enc7Bit, Enc8Bit, EncBinary, EncQuotedPrintable, EncBase64:
		return true
	default:
		return false
	}
}

func parseEncoding(raw string) (Value, error) {
	return EncodingValue{Token: strings.TrimSpace(raw)}, nil
}

func (e EncodingValue) Generate() string { return e.Token }
