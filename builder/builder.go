// Package builder implements the messageBuilder construction overlay from
// spec.md 4.7: a fluent accumulator of sender/recipient/subject/body/
// attachment state that Construct turns into a concrete MIME tree, picking
// the right multipart shape from the five-row decision table.
//
// There is no direct teacher precedent for constructing a message (derat/
// rendmail only ever rewrites one that already exists), so the fluent
// accumulate-then-Construct shape is grounded on the mohamedattahri/mail
// vendor package's NewMessage/attachment-adding style referenced throughout
// other_examples/ (e.g. the msgwriter/msgbuilder style in
// other_examples/94d9f7e7_spilled-ink-spilld__email-msgbuilder-msgbuilder_test.go.go
// and other_examples/10092c78_nylas-cli__internal-adapters-mime-builder.go.go),
// adapted to this module's tree-of-immutable-ContentHandlers model instead
// of a single mutable buffer.
package builder

import (
	"fmt"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/clock"
	"github.com/mimekit/mimekit/field"
	"github.com/mimekit/mimekit/idgen"
)

// EmbeddedObject is a multipart/related child referenced from HTML via a
// cid: URI (spec.md 4.6/4.7).
type EmbeddedObject struct {
	ContentID string
	MediaType string
	Handler   mimekit.ContentHandler
	Encoding  string
}

// PlainTextPart is a single plain-text body.
type PlainTextPart struct {
	Charset string
	Text    string
}

// HtmlTextPart is an HTML body, optionally paired with a plain-text
// alternative and a set of embedded objects its markup references by
// Content-ID.
type HtmlTextPart struct {
	Charset  string
	HTML     string
	PlainAlt *PlainTextPart
	Embedded []EmbeddedObject
}

// TextPart is either a PlainTextPart or an HtmlTextPart.
type TextPart interface{ isTextPart() }

func (PlainTextPart) isTextPart() {}
func (HtmlTextPart) isTextPart()  {}

// Attachment is a file-like leaf to add to the message, independent of its
// text body.
type Attachment struct {
	Filename string
	// MediaType is the attachment's full media type, e.g. "application/pdf".
	MediaType string
	Handler   mimekit.ContentHandler
	Encoding  string
}

// Builder accumulates the state spec.md 4.7 lists, then Construct()s a
// *mimekit.Message from it.
type Builder struct {
	From        field.Mailbox
	To          field.AddressList
	Cc          field.AddressList
	Bcc         field.AddressList
	Subject     string
	Text        TextPart
	Attachments []Attachment

	Clock  clock.Clock
	IDGen  idgen.Source
	Domain string // used for the generated Message-ID's domain part
}

// New returns a Builder with the real clock and ID generator wired in.
func New() *Builder {
	return &Builder{Clock: clock.Real{}, IDGen: idgen.Default{}}
}

// AddAttachment appends att to the attachment list.
func (b *Builder) AddAttachment(att Attachment) { b.Attachments = append(b.Attachments, att) }

// Construct builds the Message, choosing its root structure per spec.md
// 4.7's A/R/P decision table:
//
//	A = has a plain alternative to an HTML body
//	R = has embedded object(s)
//	P = has any attachment
func (b *Builder) Construct() (*mimekit.Message, error) {
	content, err := b.buildTextTree()
	if err != nil {
		return nil, err
	}

	root := content
	if len(b.Attachments) > 0 {
		root = b.wrapMixed(content)
	}

	msg := &mimekit.Message{Part: root}
	b.setEnvelopeHeaders(msg.Part)
	return msg, nil
}

// buildTextTree builds the (A, R) portion of the decision table, the
// "resulting root structure" column before any attachments are wrapped in.
func (b *Builder) buildTextTree() (*mimekit.Part, error) {
	switch t := b.Text.(type) {
	case nil:
		return nil, &mimekit.Error{Kind: mimekit.KindBuilderInvariant, Detail: "no text part set"}
	case PlainTextPart:
		return plainLeaf(t), nil
	case HtmlTextPart:
		hasAlt := t.PlainAlt != nil
		hasRelated := len(t.Embedded) > 0

		switch {
		case !hasAlt && !hasRelated:
			return htmlLeaf(t), nil
		case hasAlt && !hasRelated:
			return b.altPart(plainLeaf(*t.PlainAlt), htmlLeaf(t)), nil
		case !hasAlt && hasRelated:
			return b.relatedPart(t)
		default: // hasAlt && hasRelated
			related, err := b.relatedPart(t)
			if err != nil {
				return nil, err
			}
			return b.altPart(plainLeaf(*t.PlainAlt), related), nil
		}
	default:
		return nil, &mimekit.Error{Kind: mimekit.KindBuilderInvariant, Detail: fmt.Sprintf("unknown text part type %T", t)}
	}
}

func plainLeaf(t PlainTextPart) *mimekit.Part {
	p := mimekit.NewPart()
	mt := field.MediaType{Type: "text", Subtype: "plain", Params: field.NewParamMap()}
	cs := t.Charset
	if cs == "" {
		cs = "utf-8"
	}
	mt.Params.Set("charset", cs)
	p.Header.SetValue("Content-Type", mt)
	p.Body = mimekit.LeafBody{Handler: mimekit.NewByteHandler([]byte(t.Text)), Encoding: field.EncQuotedPrintable}
	return p
}

func htmlLeaf(t HtmlTextPart) *mimekit.Part {
	p := mimekit.NewPart()
	mt := field.MediaType{Type: "text", Subtype: "html", Params: field.NewParamMap()}
	cs := t.Charset
	if cs == "" {
		cs = "utf-8"
	}
	mt.Params.Set("charset", cs)
	p.Header.SetValue("Content-Type", mt)
	p.Body = mimekit.LeafBody{Handler: mimekit.NewByteHandler([]byte(t.HTML)), Encoding: field.EncQuotedPrintable}
	return p
}

// altPart wraps plain and html (or html-plus-related) as a
// multipart/alternative, with plain first (the poorer representation
// precedes the preferred one, per RFC 2046 5.1.4's "best representation
// last" convention the teacher's own MIME-handling ancestry assumes).
func (b *Builder) altPart(plain, html *mimekit.Part) *mimekit.Part {
	bnd := b.IDGen.Boundary()
	root := mimekit.NewPart()
	mt := field.MediaType{Type: "multipart", Subtype: "alternative", Params: field.NewParamMap()}
	mt.Params.Set("boundary", bnd)
	root.Header.SetValue("Content-Type", mt)
	mb := mimekit.NewMultipartBody(bnd)
	root.Body = mb
	mb.AppendChild(root, plain)
	mb.AppendChild(root, html)
	return root
}

// relatedPart wraps an HtmlTextPart with embedded objects as a
// multipart/related, HTML first (RFC 2387 "start" defaults to the first
// part; see the Open Question decision recorded in DESIGN.md).
func (b *Builder) relatedPart(t HtmlTextPart) (*mimekit.Part, error) {
	bnd := b.IDGen.Boundary()
	root := mimekit.NewPart()
	mt := field.MediaType{Type: "multipart", Subtype: "related", Params: field.NewParamMap()}
	mt.Params.Set("boundary", bnd)
	root.Header.SetValue("Content-Type", mt)
	mb := mimekit.NewMultipartBody(bnd)
	root.Body = mb
	mb.AppendChild(root, htmlLeaf(t))

	for _, obj := range t.Embedded {
		if obj.ContentID == "" {
			return nil, &mimekit.Error{Kind: mimekit.KindBuilderInvariant, Detail: "embedded object has no Content-ID"}
		}
		child := mimekit.NewPart()
		child.Header.Set("Content-Type", obj.MediaType)
		child.Header.Set("Content-ID", "<"+obj.ContentID+">")
		enc := obj.Encoding
		if enc == "" {
			enc = field.EncBase64
		}
		child.Header.Set("Content-Transfer-Encoding", enc)
		child.Body = mimekit.LeafBody{Handler: obj.Handler, Encoding: enc}
		mb.AppendChild(root, child)
	}
	return root, nil
}

// wrapMixed installs content as the first child of a fresh multipart/mixed
// root, followed by one child per attachment. Mirrors attachment.wrapMixed,
// but building forward (content already has no pre-existing root headers to
// migrate) rather than retrofitting an existing root.
func (b *Builder) wrapMixed(content *mimekit.Part) *mimekit.Part {
	bnd := b.IDGen.Boundary()
	root := mimekit.NewPart()
	mt := field.MediaType{Type: "multipart", Subtype: "mixed", Params: field.NewParamMap()}
	mt.Params.Set("boundary", bnd)
	root.Header.SetValue("Content-Type", mt)
	mb := mimekit.NewMultipartBody(bnd)
	root.Body = mb
	mb.AppendChild(root, content)

	for _, att := range b.Attachments {
		child := mimekit.NewPart()
		child.Header.Set("Content-Type", attachmentContentType(att))
		child.Header.Set("Content-Disposition", `attachment; filename="`+att.Filename+`"`)
		enc := att.Encoding
		if enc == "" {
			enc = field.EncBase64
		}
		child.Header.Set("Content-Transfer-Encoding", enc)
		child.Body = mimekit.LeafBody{Handler: att.Handler, Encoding: enc}
		mb.AppendChild(root, child)
	}
	return root
}

func attachmentContentType(att Attachment) string {
	if att.MediaType != "" {
		return att.MediaType
	}
	return "application/octet-stream"
}

// setEnvelopeHeaders sets the addressing/tracing fields spec.md 4.7 lists
// on the outermost part: Date, From, To, Cc, Bcc, Subject, MIME-Version,
// Message-ID.
func (b *Builder) setEnvelopeHeaders(root *mimekit.Part) {
	now := clock.Real{}.Now()
	if b.Clock != nil {
		now = b.Clock.Now()
	}
	root.Header.SetValue("Date", field.NewDateTime(now))
	if b.From.Domain != "" || b.From.Local != "" {
		root.Header.SetValue("From", b.From)
	}
	if len(b.To.Items) > 0 {
		root.Header.SetValue("To", b.To)
	}
	if len(b.Cc.Items) > 0 {
		root.Header.SetValue("Cc", b.Cc)
	}
	if len(b.Bcc.Items) > 0 {
		root.Header.SetValue("Bcc", b.Bcc)
	}
	if b.Subject != "" {
		root.Header.SetValue("Subject", field.NewText(b.Subject))
	}
	root.Header.Set("MIME-Version", "1.0")

	idgenSrc := b.IDGen
	if idgenSrc == nil {
		idgenSrc = idgen.Default{}
	}
	root.Header.SetValue("Message-ID", field.MessageID{ID: idgenSrc.MessageID(b.Domain)})
}
