// Package parser implements the octets -> structured model direction
// (spec.md 4): reading an RFC 5322/MIME message into a *mimekit.Message.
//
// Its control flow is a direct generalization of the teacher's (derat/
// rendmail) copyMessagePart/copyHeader/copyBody in message.go: the same
// header/blank-line/body/boundary-delimited-children shape, except instead
// of copying bytes straight to an io.Writer it builds Field and Part values.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/codec"
	"github.com/mimekit/mimekit/field"
	"github.com/mimekit/mimekit/internal/linescan"
)

// Options controls Parse's behavior.
type Options struct {
	// Strict causes Parse to abort on the first recoverable message error
	// instead of degrading and continuing, mirroring the teacher's
	// rewriteOptions.Strict.
	Strict bool
	// Registry supplies the field.Registry typed values are decoded
	// against; nil means field.DefaultRegistry.
	Registry *field.Registry
	// MaxPartDepth bounds multipart/message-rfc822 recursion, guarding
	// against pathological or hostile nesting. Zero means a default of 64.
	MaxPartDepth int
}

func (o Options) maxDepth() int {
	if o.MaxPartDepth <= 0 {
		return 64
	}
	return o.MaxPartDepth
}

// Parse reads a single RFC 5322 message from r and returns its
// *mimekit.Message. In non-strict mode (the default), recoverable per-field
// or per-part errors degrade the offending piece (a header field becomes
// Raw, an unparseable multipart boundary becomes a single opaque leaf) and
// parsing continues; in Options.Strict mode the first such error aborts and
// is returned.
func Parse(r io.Reader, opts Options) (*mimekit.Message, error) {
	sc := linescan.New(r)
	msg := mimekit.NewMessage()
	if opts.Registry != nil {
		msg.Header.WithRegistry(opts.Registry)
	}
	if _, err := parsePart(sc, msg.Part, "", opts, 0); err != nil {
		return msg, err
	}
	return msg, nil
}

// parsePart reads one message part (header, blank line, body) from sc into
// part. delim is the boundary line (already including its leading "--")
// that terminates this part within its enclosing multipart body, or "" for
// the outermost message. end reports whether the delimiter that stopped
// this part's body scan was the closing ("--"-suffixed) one; a parent
// multipart loop uses it to know when to stop reading children. This
// mirrors copyMessagePart's (end bool, err error) return.
func parsePart(sc *linescan.Scanner, part *mimekit.Part, delim string, opts Options, depth int) (end bool, err error) {
	if depth > opts.maxDepth() {
		return false, &mimekit.Error{Kind: mimekit.KindMalformedHeader, Detail: "multipart nesting too deep"}
	}

	if err := parseHeader(sc, part, opts); err != nil {
		if !opts.Strict {
			return true, nil
		}
		return false, err
	}

	mt := part.EffectiveMediaType()
	if mt.IsMultipart() {
		return parseMultipartBody(sc, part, mt, delim, opts, depth)
	}
	if mt.IsMessage() {
		child := mimekit.NewPart()
		part.Body = mimekit.EncapsulatedBody{Child: child}
		return parsePart(sc, child, delim, opts, depth+1)
	}
	return parseLeafBody(sc, part, delim, opts)
}

// parseHeader reads fields up to the blank line that ends the header,
// populating part.Header. Mirrors copyHeader, minus the rewriting-specific
// deletion/X-Rendmail-Subject logic, which has no place in a general
// library.
func parseHeader(sc *linescan.Scanner, part *mimekit.Part, opts Options) error {
	for {
		_, unfolded, err := sc.ReadFoldedLine()
		if err == io.EOF {
			return &mimekit.Error{Kind: mimekit.KindMalformedHeader, Detail: "missing body"}
		} else if err != nil {
			return err
		}
		if unfolded == "" {
			return nil // blank line: end of header
		}
		name, val, err := linescan.SplitHeaderField(unfolded)
		if err != nil {
			if opts.Strict {
				return &mimekit.Error{Kind: mimekit.KindMalformedHeader,
					Detail: fmt.Sprintf("malformed header field %q: %v", unfolded, err)}
			}
			// Drop the unparseable line and keep going, per spec.md 7.
			continue
		}
		part.Header.Add(name, val)
	}
}

// parseMultipartBody reads a multipart body's preamble and boundary-
// delimited children, then falls through to a trailing body scan against
// the enclosing delim exactly as copyMessagePart does: the blank-line-
// terminated "top-level body" scan that follows the inner boundary loop
// doubles as the epilogue/outer-delimiter-detection step.
func parseMultipartBody(sc *linescan.Scanner, part *mimekit.Part, mt field.MediaType, delim string, opts Options, depth int) (end bool, err error) {
	bnd := mt.Boundary()
	if bnd == "" {
		if opts.Strict {
			return false, &mimekit.Error{Kind: mimekit.KindBoundaryMissing, Detail: "multipart Content-Type has no boundary"}
		}
		return parseLeafBody(sc, part, delim, opts)
	}
	subDelim := "--" + bnd

	mb := mimekit.NewMultipartBody(bnd)
	part.Body = mb

	preamble, subEnd, err := readUntilDelim(sc, subDelim)
	if err != nil {
		if opts.Strict {
			return false, err
		}
		subEnd = true
	}
	mb.Preamble = preamble

	for !subEnd {
		child := mimekit.NewPart()
		childEnd, err := parsePart(sc, child, subDelim, opts, depth+1)
		if err != nil {
			return false, err
		}
		mb.AppendChild(part, child)
		subEnd = childEnd
	}

	// Trailing epilogue, terminated by this part's own enclosing delimiter
	// (or EOF, if this is the outermost message).
	epilogue, outerEnd, err := readUntilDelim(sc, delim)
	if err != nil {
		if opts.Strict {
			return false, err
		}
		return true, nil
	}
	mb.Epilogue = epilogue
	return outerEnd, nil
}

// readUntilDelim consumes lines up to and including the first line starting
// with delim, returning everything before it and whether that delimiter
// line was the closing ("--"-suffixed) one. If delim is empty, it consumes
// to EOF and always reports end=true. Mirrors copyBody's scanning loop.
func readUntilDelim(sc *linescan.Scanner, delim string) (before []byte, end bool, err error) {
	var buf strings.Builder
	for {
		ln, err := sc.ReadLine()
		if err == io.EOF {
			if delim == "" {
				return []byte(buf.String()), true, nil
			}
			return []byte(buf.String()), false, &mimekit.Error{
				Kind: mimekit.KindBoundaryUnterminated, Detail: fmt.Sprintf("EOF while looking for delimiter %q", delim)}
		} else if err != nil {
			return nil, false, err
		}
		if delim != "" && strings.HasPrefix(ln, delim) {
			return []byte(buf.String()), strings.HasPrefix(ln[len(delim):], "--"), nil
		}
		buf.WriteString(ln)
	}
}

// parseLeafBody reads a leaf body's raw bytes up to delim (or EOF, for the
// outermost part) and wraps them as a ByteHandler, tagged with the part's
// declared Content-Transfer-Encoding.
func parseLeafBody(sc *linescan.Scanner, part *mimekit.Part, delim string, opts Options) (end bool, err error) {
	content, end, err := readUntilDelim(sc, delim)
	if err != nil {
		if opts.Strict {
			return false, err
		}
		end = true
	}
	enc := field.Enc7Bit
	if v, terr := part.Header.TypedValue("content-transfer-encoding"); terr == nil && v != nil {
		if ev, ok := v.(field.EncodingValue); ok {
			enc = ev.Token
		}
	}
	part.Body = mimekit.LeafBody{Handler: mimekit.NewByteHandler(content), Encoding: enc}
	return end, nil
}

// DecodeBody decodes a leaf body's content according to its declared
// Content-Transfer-Encoding, returning the underlying octets (for binary
// content) or text bytes (for quoted-printable/base64-wrapped text). 7bit,
// 8bit, and binary are identity transforms; an unrecognized token is
// returned as-is with KindUnknownEncoding.
func DecodeBody(lb mimekit.LeafBody) ([]byte, error) {
	r, err := lb.Handler.Reader()
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
	}
	switch strings.ToLower(lb.Encoding) {
	case field.Enc7Bit, field.Enc8Bit, field.EncBinary, "":
		return raw, nil
	case field.EncQuotedPrintable:
		return codec.QPDecode(string(raw)), nil
	case field.EncBase64:
		return codec.B64Decode(string(raw)), nil
	default:
		return raw, &mimekit.Error{Kind: mimekit.KindUnknownEncoding, Detail: lb.Encoding, Field: "content-transfer-encoding"}
	}
}
