// Package charset implements the "Charset transcoder" external collaborator
// from spec.md 6: transcode(bytes, from, to, on_error) -> bytes. The core
// model never interprets text in any charset other than what it needs to
// round-trip octets; actual conversion to/from a display charset is
// delegated here.
//
// This is a direct generalization of the teacher's (derat/rendmail)
// decodeHeaderValue/headerDecoder/headerTransformChain in message.go, which
// hard-codes a single extra charset (windows-1252) on top of Go's built-in
// utf-8/iso-8859-1/us-ascii support. Default() instead looks charsets up
// through golang.org/x/text/encoding/htmlindex, with a small fallback table
// of charmap/japanese/korean/simplifiedchinese encodings consulted only for
// names htmlindex rejects.
package charset

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// OnError selects how Transcode handles an untranscodable byte sequence,
// per spec.md 6.
type OnError int

const (
	// OnErrorFail aborts and returns an error.
	OnErrorFail OnError = iota
	// OnErrorSubstitute replaces the bad sequence with U+FFFD when decoding
	// and with '?' when encoding.
	OnErrorSubstitute
	// OnErrorDrop drops the bad sequence silently.
	OnErrorDrop
)

// Transcoder converts bytes between charsets.
type Transcoder interface {
	Transcode(b []byte, from, to string, onErr OnError) ([]byte, error)
}

// Default returns the Transcoder used when no custom one is supplied: it
// resolves charset names through golang.org/x/text: every name htmlindex
// knows, then the legacyTables fallback.
func Default() Transcoder { return defaultTranscoder{} }

type defaultTranscoder struct{}

func (defaultTranscoder) Transcode(b []byte, from, to string, onErr OnError) ([]byte, error) {
	if strings.EqualFold(from, to) {
		return b, nil
	}
	fromEnc, err := lookupEncoding(from)
	if err != nil {
		return nil, err
	}
	toEnc, err := lookupEncoding(to)
	if err != nil {
		return nil, err
	}

	decoded, err := decode(fromEnc, b, onErr)
	if err != nil {
		return nil, err
	}
	return encode(toEnc, decoded, onErr)
}

func decode(enc encoding.Encoding, b []byte, onErr OnError) ([]byte, error) {
	return runTransform(enc.NewDecoder(), b, onErr, utf8Replacement)
}

func encode(enc encoding.Encoding, b []byte, onErr OnError) ([]byte, error) {
	return runTransform(enc.NewEncoder(), b, onErr, questionMarkReplacement)
}

// utf8Replacement is U+FFFD, UTF-8 encoded — what OnErrorSubstitute inserts
// when decoding into UTF-8.
var utf8Replacement = []byte(string(utf8.RuneError))

// questionMarkReplacement is what OnErrorSubstitute inserts when encoding
// into a target charset, since '?' is representable in every charset this
// package supports (U+FFFD is not, in most of them).
var questionMarkReplacement = []byte("?")

// runTransform drives t over src to completion, handling the three OnError
// policies on an unconvertible byte sequence:
//
//   - OnErrorFail stops and returns an error immediately.
//   - OnErrorSubstitute inserts replacement in the output and skips the
//     offending byte.
//   - OnErrorDrop skips the offending byte without inserting anything,
//     distinct from OnErrorSubstitute in its actual output rather than only
//     in name.
//
// Skipping one byte at a time is the same granularity transform.Chain's
// underlying decoders/encoders report errors at, so it recovers from
// malformed or unmappable sequences without losing convertible bytes on
// either side of them.
func runTransform(t transform.Transformer, src []byte, onErr OnError, replacement []byte) ([]byte, error) {
	t.Reset()
	var out []byte
	dst := make([]byte, 4096)
	for {
		nDst, nSrc, err := t.Transform(dst, src, true)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch err {
		case nil:
			return out, nil
		case transform.ErrShortDst:
			dst = make([]byte, len(dst)*2)
			continue
		}

		switch onErr {
		case OnErrorFail:
			return nil, fmt.Errorf("charset: transcode failed: %w", err)
		case OnErrorSubstitute:
			out = append(out, replacement...)
		case OnErrorDrop:
			// Nothing inserted; the offending byte is simply skipped below.
		default:
			return nil, fmt.Errorf("charset: transcode failed: %w", err)
		}
		if len(src) == 0 {
			return out, nil
		}
		src = src[1:]
	}
}

// lookupEncoding resolves a MIME/IANA charset name to an encoding.Encoding,
// trying htmlindex first (which covers every charset the WHATWG/IANA
// registries define) and falling back to a few legacy tables it omits.
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "us-ascii" || name == "ascii" {
		return encoding.Nop, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	if enc, ok := legacyTables[name]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("charset: unknown charset %q", name)
}

// legacyTables maps a handful of historical names to golang.org/x/text
// tables, grounded on the same subpackages the teacher already imports one
// of (charmap). htmlindex already resolves every name listed here, so an
// entry is used only if htmlindex.Get rejects that name.
var legacyTables = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"koi8-r":       charmap.KOI8R,
	"shift_jis":    japanese.ShiftJIS,
	"iso-2022-jp":  japanese.ISO2022JP,
	"euc-jp":       japanese.EUCJP,
	"euc-kr":       korean.EUCKR,
	"gb2312":       simplifiedchinese.HZGB2312,
	"gbk":          simplifiedchinese.GBK,
}

// Reader wraps r, decoding from charset into UTF-8 on the fly; used when a
// ContentHandler needs to be presented as text without fully buffering it.
func Reader(r io.Reader, from string) (io.Reader, error) {
	enc, err := lookupEncoding(from)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Bytes is a convenience wrapper for the common case of transcoding a whole
// buffer to UTF-8.
func Bytes(b []byte, from string, onErr OnError) ([]byte, error) {
	return Default().Transcode(b, from, "utf-8", onErr)
}
