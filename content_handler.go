package mimekit

import (
	"bytes"
	"io"
)

// ContentHandler is an opaque, immutable byte source backing a leaf Body.
// Per spec.md 3/9, ContentHandlers are shareable — the same handler can
// back multiple Parts — and are never mutated once attached to a Part.
type ContentHandler interface {
	// Reader returns a fresh reader over the content. Implementations that
	// wrap a single-use stream (see StreamHandler) must support being read
	// more than once if the generator needs to retry; in-memory handlers
	// always do.
	Reader() (io.Reader, error)
	// Len returns the content length in bytes and true, or (0, false) if
	// the length isn't known without reading (e.g. a streamed source with
	// no declared length).
	Len() (int64, bool)
}

// ByteHandler is an in-memory ContentHandler.
type ByteHandler struct {
	Bytes []byte
}

// NewByteHandler wraps b (without copying) as a ContentHandler.
func NewByteHandler(b []byte) ByteHandler { return ByteHandler{Bytes: b} }

func (h ByteHandler) Reader() (io.Reader, error) { return bytes.NewReader(h.Bytes), nil }
func (h ByteHandler) Len() (int64, bool)          { return int64(len(h.Bytes)), true }

// FileOpener is the file-system collaborator from spec.md 6: a capability
// yielding an input stream and a declared byte length given a path.
type FileOpener interface {
	Open(path string) (io.ReadCloser, int64, error)
}

// StreamHandler is a ContentHandler backed by a file-system path, opened
// lazily and freshly on every Reader() call via a FileOpener. Generation
// blocks on that stream; cancellation is the caller's responsibility
// (close the source), and a failure surfaces as a KindIoError (spec.md 6).
type StreamHandler struct {
	Opener FileOpener
	Path   string
}

func (h StreamHandler) Reader() (io.Reader, error) {
	rc, _, err := h.Opener.Open(h.Path)
	if err != nil {
		return nil, &Error{Kind: KindIoError, Detail: err.Error()}
	}
	return rc, nil
}

func (h StreamHandler) Len() (int64, bool) {
	rc, n, err := h.Opener.Open(h.Path)
	if err != nil {
		return 0, false
	}
	rc.Close()
	if n < 0 {
		return 0, false
	}
	return n, true
}
