package mimekit

import (
	"github.com/mimekit/mimekit/field"
)

// Part is a recursive unit of a MIME message: one Header and one Body,
// possibly nesting further Parts through a multipart or encapsulated body.
// Ownership is tree-exclusive (spec.md 3/9): a Part has at most one parent,
// tracked here, and moving a subtree requires Detach then InsertChild/
// AppendChild.
type Part struct {
	Header *Header
	Body   Body

	parent *Part
}

// NewPart returns an empty Part: an empty Header and a leaf Body with an
// empty ByteHandler, matching the "constructed empty" lifecycle in
// spec.md 3.
func NewPart() *Part {
	return &Part{
		Header: NewHeader(),
		Body:   LeafBody{Handler: NewByteHandler(nil), Encoding: field.Enc7Bit},
	}
}

// Parent returns the Part's parent, or nil if it's a root (including a
// Message).
func (p *Part) Parent() *Part { return p.parent }

// Detach removes p from its parent's children, if any. After Detach,
// Parent() returns nil.
func (p *Part) Detach() {
	if p.parent == nil {
		return
	}
	if mb, ok := p.parent.Body.(*MultipartBody); ok {
		mb.RemoveChild(p)
	}
	p.parent = nil
}

// EffectiveMediaType returns the Part's Content-Type, defaulting to
// text/plain; charset=us-ascii when absent or unparseable (spec.md 3).
func (p *Part) EffectiveMediaType() field.MediaType {
	v, err := p.Header.TypedValue("content-type")
	if v == nil || err != nil {
		return field.DefaultMediaType()
	}
	mt, ok := v.(field.MediaType)
	if !ok {
		return field.DefaultMediaType()
	}
	return mt
}

// IsMultipart reports whether p's effective media type is multipart/* —
// which per spec.md 3's invariant must agree with p.Body's Kind().
func (p *Part) IsMultipart() bool { return p.EffectiveMediaType().IsMultipart() }

// IsMessage reports whether p's effective media type is message/rfc822.
func (p *Part) IsMessage() bool { return p.EffectiveMediaType().IsMessage() }

// AsMultipart returns p.Body as *MultipartBody and true, if p.Body.Kind()
// is KindMultipart.
func (p *Part) AsMultipart() (*MultipartBody, bool) {
	mb, ok := p.Body.(*MultipartBody)
	return mb, ok
}

// AsLeaf returns p.Body as LeafBody and true, if p.Body.Kind() is KindLeaf.
func (p *Part) AsLeaf() (LeafBody, bool) {
	lb, ok := p.Body.(LeafBody)
	return lb, ok
}

// AsEncapsulated returns p.Body as EncapsulatedBody and true, if
// p.Body.Kind() is KindEncapsulated.
func (p *Part) AsEncapsulated() (EncapsulatedBody, bool) {
	eb, ok := p.Body.(EncapsulatedBody)
	return eb, ok
}

// Clone deep-copies p's subtree: a new Header and new Body/child Parts, but
// leaf ContentHandlers are shared rather than copied, since they're
// immutable once attached (spec.md 3/9 "Supplemented features").
func (p *Part) Clone() *Part {
	cp := &Part{Header: cloneHeader(p.Header)}
	switch b := p.Body.(type) {
	case LeafBody:
		cp.Body = b // ContentHandler shared, not copied
	case *MultipartBody:
		nb := &MultipartBody{Preamble: append([]byte(nil), b.Preamble...),
			Epilogue: append([]byte(nil), b.Epilogue...), Boundary: b.Boundary}
		cp.Body = nb
		for _, child := range b.Children() {
			nb.AppendChild(cp, child.Clone())
		}
	case EncapsulatedBody:
		child := b.Child.Clone()
		cp.Body = EncapsulatedBody{Child: child}
		child.parent = cp
	}
	return cp
}

func cloneHeader(h *Header) *Header {
	nh := &Header{registry: h.registry}
	nh.fields = append([]Field(nil), h.fields...)
	return nh
}

// Subject returns the decoded Subject field, if present.
func (p *Part) Subject() (field.Text, bool) {
	v, _ := p.Header.TypedValue("subject")
	t, ok := v.(field.Text)
	return t, ok
}

// From returns the decoded From field, if present.
func (p *Part) From() (field.AddressList, bool) {
	v, _ := p.Header.TypedValue("from")
	al, ok := v.(field.AddressList)
	return al, ok
}

// To returns the decoded To field, if present.
func (p *Part) To() (field.AddressList, bool) {
	v, _ := p.Header.TypedValue("to")
	al, ok := v.(field.AddressList)
	return al, ok
}

// Date returns the decoded Date field, if present.
func (p *Part) Date() (field.DateTime, bool) {
	v, _ := p.Header.TypedValue("date")
	dt, ok := v.(field.DateTime)
	return dt, ok
}

// ContentType is a convenience alias for EffectiveMediaType.
func (p *Part) ContentType() field.MediaType { return p.EffectiveMediaType() }

// ContentDisposition returns the decoded Content-Disposition field, if
// present.
func (p *Part) ContentDisposition() (field.ContentDisposition, bool) {
	v, _ := p.Header.TypedValue("content-disposition")
	cd, ok := v.(field.ContentDisposition)
	return cd, ok
}

// Message is a Part with no parent: the root of a MIME tree (spec.md 3).
type Message struct {
	*Part
}

// NewMessage returns an empty Message.
func NewMessage() *Message { return &Message{Part: NewPart()} }
