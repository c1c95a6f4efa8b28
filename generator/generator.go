// Package generator implements the structured model -> octets direction
// (spec.md 4.5): writing a *mimekit.Message back out as RFC 5322/MIME
// bytes. Header folding reuses codec.Fold, the same primitive the teacher's
// (derat/rendmail) foldHeaderField implements; the rest — multipart
// delimiter emission, boundary-collision checking, body transfer-encoding —
// has no teacher analogue (rendmail only ever copies bytes it already
// parsed) and is grounded directly on RFC 2045/2046.
package generator

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/codec"
	"github.com/mimekit/mimekit/field"
)

// Options controls Generate's behavior.
type Options struct {
	// Term is the line terminator to emit; "" means "\r\n".
	Term string
}

func (o Options) term() string {
	if o.Term == "" {
		return "\r\n"
	}
	return o.Term
}

// Generate writes msg to w as a complete RFC 5322/MIME message.
func Generate(w io.Writer, msg *mimekit.Message, opts Options) error {
	return generatePart(w, msg.Part, opts)
}

func generatePart(w io.Writer, part *mimekit.Part, opts Options) error {
	if err := generateHeader(w, part, opts); err != nil {
		return err
	}
	switch b := part.Body.(type) {
	case mimekit.LeafBody:
		return generateLeafBody(w, b, opts)
	case *mimekit.MultipartBody:
		return generateMultipartBody(w, b, opts)
	case mimekit.EncapsulatedBody:
		return generatePart(w, b.Child, opts)
	default:
		return &mimekit.Error{Kind: mimekit.KindBuilderInvariant, Detail: "part has no body"}
	}
}

// generateHeader writes every field, folding each "Name: value" line with
// codec.Fold, followed by the blank line ending the header.
func generateHeader(w io.Writer, part *mimekit.Part, opts Options) error {
	term := opts.term()
	for _, f := range part.Header.Fields() {
		line := f.CanonicalName() + ": " + f.Raw
		for _, ln := range codec.Fold(line, term) {
			if _, err := io.WriteString(w, ln); err != nil {
				return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
			}
		}
	}
	if _, err := io.WriteString(w, term); err != nil {
		return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
	}
	return nil
}

// generateLeafBody writes a leaf body's content, applying the
// Content-Transfer-Encoding already recorded on the LeafBody. The encoding
// is assumed to have already been chosen (by a builder, or left as parsed);
// Generate does not re-derive it.
func generateLeafBody(w io.Writer, lb mimekit.LeafBody, opts Options) error {
	r, err := lb.Handler.Reader()
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
	}

	var out []byte
	switch lb.Encoding {
	case field.EncQuotedPrintable:
		out = codec.QPEncode(raw)
	case field.EncBase64:
		out = codec.B64Encode(raw)
	default:
		out = raw
	}
	if _, err := w.Write(out); err != nil {
		return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
	}
	return nil
}

// generateMultipartBody writes the preamble, each child delimited by
// "--boundary", and a closing "--boundary--" plus the epilogue. Nothing here
// derives a fresh boundary: callers may run EnsureBoundary before Generate,
// and Generate itself only verifies, failing loudly if the recorded
// boundary collides with a line the children would produce rather than
// silently emitting a corrupt message.
func generateMultipartBody(w io.Writer, mb *mimekit.MultipartBody, opts Options) error {
	term := opts.term()
	if mb.Boundary == "" {
		return &mimekit.Error{Kind: mimekit.KindBoundaryMissing, Detail: "multipart part has no boundary set"}
	}

	var buf bytes.Buffer
	for _, child := range mb.Children() {
		if err := generatePart(&buf, child, opts); err != nil {
			return err
		}
	}
	if boundaryCollides(mb.Boundary, buf.Bytes(), term) {
		return &mimekit.Error{Kind: mimekit.KindBuilderInvariant,
			Detail: fmt.Sprintf("boundary %q collides with a child line; call EnsureBoundary before Generate", mb.Boundary)}
	}

	if len(mb.Preamble) > 0 {
		if _, err := w.Write(mb.Preamble); err != nil {
			return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
		}
	}
	children := mb.Children()
	for _, child := range children {
		if _, err := io.WriteString(w, "--"+mb.Boundary+term); err != nil {
			return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
		}
		if err := generatePart(w, child, opts); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "--"+mb.Boundary+"--"+term); err != nil {
		return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
	}
	if len(mb.Epilogue) > 0 {
		if _, err := w.Write(mb.Epilogue); err != nil {
			return &mimekit.Error{Kind: mimekit.KindIoError, Detail: err.Error()}
		}
	}
	return nil
}

// boundaryCollides reports whether any line of generated begins with
// "--boundary", which RFC 2046 5.1.1 forbids (it would be misread as a
// delimiter).
func boundaryCollides(boundary string, generated []byte, term string) bool {
	delim := []byte("--" + boundary)
	for _, line := range bytes.SplitAfter(generated, []byte(term)) {
		if bytes.HasPrefix(line, delim) {
			return true
		}
	}
	return false
}

// EnsureBoundary regenerates mb's boundary (via src) until it no longer
// collides with any line its children would produce, up to a small number
// of attempts. Builders should call this before Generate when constructing
// a new multipart body around untrusted content.
func EnsureBoundary(mb *mimekit.MultipartBody, src interface{ Boundary() string }, opts Options) error {
	term := opts.term()
	for attempt := 0; attempt < 8; attempt++ {
		var buf bytes.Buffer
		for _, child := range mb.Children() {
			if err := generatePart(&buf, child, opts); err != nil {
				return err
			}
		}
		if !boundaryCollides(mb.Boundary, buf.Bytes(), term) {
			return nil
		}
		mb.Boundary = src.Boundary()
	}
	return &mimekit.Error{Kind: mimekit.KindBuilderInvariant, Detail: "could not find a non-colliding boundary"}
}
