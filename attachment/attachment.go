// Package attachment implements the attachmentHelper from spec.md 4.8: a
// structure-agnostic way to detect and add attachments without requiring
// callers to walk the multipart tree themselves.
//
// There is no direct teacher precedent — derat/rendmail only ever deletes
// whole parts by media-type glob, it never adds one — so wrapMixed's
// root-promotion shape is grounded on spec.md 4.8/9 directly, generalizing
// the same "wrap the current content as the first child of a fresh
// multipart/mixed" idiom that builder.Construct uses for its own P=true
// outcomes (see builder.wrapMixed, which this package's wrapMixed mirrors).
package attachment

import (
	"strings"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/field"
	"github.com/mimekit/mimekit/idgen"
)

// IsAttachment reports whether part is an attachment leaf, per spec.md
// 4.8's definition: a leaf part whose Content-Disposition is "attachment",
// or whose media type is outside text/*, multipart/*, message/*, or whose
// media type is text/* but disposition is "attachment".
func IsAttachment(part *mimekit.Part) bool {
	if part.IsMultipart() || part.IsMessage() {
		return false
	}
	mt := part.EffectiveMediaType()
	cd, _ := part.ContentDisposition()
	switch {
	case cd.IsAttachment():
		return true
	case strings.EqualFold(mt.Type, "text"), strings.EqualFold(mt.Type, "message"):
		return false
	default:
		return true
	}
}

// FindAttachments returns every attachment leaf in message, depth-first.
func FindAttachments(message *mimekit.Message) []*mimekit.Part {
	var out []*mimekit.Part
	var walk func(p *mimekit.Part)
	walk = func(p *mimekit.Part) {
		if mb, ok := p.AsMultipart(); ok {
			for _, c := range mb.Children() {
				walk(c)
			}
			return
		}
		if eb, ok := p.AsEncapsulated(); ok {
			walk(eb.Child)
			return
		}
		if IsAttachment(p) {
			out = append(out, p)
		}
	}
	walk(message.Part)
	return out
}

// contentHeaders are the fields wrapMixed migrates from a promoted root
// onto its new first child, per spec.md 4.8/9's Open Question decision
// (addressing/tracing fields stay on the root).
var contentHeaders = []string{
	"Content-Type",
	"Content-Transfer-Encoding",
	"Content-Disposition",
	"Content-Description",
	"Content-ID",
}

// AddAttachment adds att to message. If the root is already multipart/mixed,
// att is appended as a new child. Otherwise the root's current content is
// wrapped into a fresh multipart/mixed whose first child receives the
// original content (with its content-* headers moved over) and whose
// second child is att; the root keeps its addressing/tracing headers and
// gets a new multipart/mixed Content-Type.
func AddAttachment(message *mimekit.Message, att *mimekit.Part, boundarySrc idgen.Source) {
	root := message.Part
	mt := root.EffectiveMediaType()
	if mt.IsMultipart() && strings.EqualFold(mt.Subtype, "mixed") {
		if mb, ok := root.AsMultipart(); ok {
			mb.AppendChild(root, att)
			return
		}
	}
	wrapMixed(root, att, boundarySrc)
}

// reparent fixes up a Body's children after the Body itself has moved to a
// new owning Part, since child.Parent() tracks the Part, not the Body.
func reparent(body mimekit.Body, owner *mimekit.Part) {
	switch b := body.(type) {
	case *mimekit.MultipartBody:
		b.Reown(owner)
	case mimekit.EncapsulatedBody:
		b.Reown(owner)
	}
}

// wrapMixed moves root's current Header content-* fields and Body onto a
// new first child, installs a fresh multipart/mixed Body on root containing
// that child plus extra, and gives root a matching Content-Type.
func wrapMixed(root *mimekit.Part, extra *mimekit.Part, boundarySrc idgen.Source) {
	first := mimekit.NewPart()
	first.Body = root.Body
	reparent(first.Body, first)
	for _, name := range contentHeaders {
		if raw, ok := root.Header.Get(name); ok {
			first.Header.Set(name, raw)
			root.Header.Remove(name)
		}
	}

	bnd := boundarySrc.Boundary()
	mb := mimekit.NewMultipartBody(bnd)
	root.Body = mb
	mb.AppendChild(root, first)
	mb.AppendChild(root, extra)

	params := field.NewParamMap()
	params.Set("boundary", bnd)
	mt := field.MediaType{Type: "multipart", Subtype: "mixed", Params: params}
	root.Header.SetValue("Content-Type", mt)
}
