// Package flatten implements the messageParser flattening overlay from
// spec.md 4.6: classifying a parsed MIME tree into the text representations
// a user agent would actually show (TextParts) and the parts it would offer
// as downloads (Attachments).
//
// There is no direct teacher precedent — derat/rendmail only ever rewrites
// a message, it never classifies one — so the classification rules are
// grounded on spec.md 4.6 directly and on the attachment/body distinction
// drawn by the mohamedattahri/mail-style helpers referenced throughout
// other_examples/ (disposition- and media-type-driven, the same shape this
// package's isStructural/classifyLeaf follow).
package flatten

import (
	"strings"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/builder"
)

// Result is the flattened view of a message: the text the user would read,
// plus everything else offered as a download.
type Result struct {
	Text        builder.TextPart
	Attachments []builder.Attachment
}

// Flatten classifies message per spec.md 4.6's five rules and returns the
// resulting Result.
func Flatten(message *mimekit.Message) Result {
	var r Result
	classify(message.Part, &r)
	if r.Text == nil {
		// No text representation was found anywhere in the tree; fall back
		// to an empty plain-text part so callers always have something to
		// render, matching the permissive-degrade policy used elsewhere.
		r.Text = builder.PlainTextPart{Charset: "us-ascii", Text: ""}
	}
	return r
}

// classify walks part, filling r.Text (set at most once — the first text
// representation encountered wins, per spec.md 4.6's "pick the best"
// framing applied one level at a time) and appending to r.Attachments.
func classify(part *mimekit.Part, r *Result) {
	mt := part.EffectiveMediaType()
	switch {
	case mt.IsMultipart() && strings.EqualFold(mt.Subtype, "alternative"):
		classifyAlternative(part, r)
	case mt.IsMultipart() && strings.EqualFold(mt.Subtype, "related"):
		classifyRelated(part, r)
	case mt.IsMultipart():
		classifyMixedLike(part, r)
	case mt.IsMessage():
		r.Attachments = append(r.Attachments, asAttachment(part))
	default:
		classifyLeaf(part, r)
	}
}

// classifyMixedLike handles multipart/mixed (and any other multipart
// subtype with no dedicated rule): spec.md 4.6 rule 3, "children are
// processed individually".
func classifyMixedLike(part *mimekit.Part, r *Result) {
	mb, ok := part.AsMultipart()
	if !ok {
		return
	}
	for _, child := range mb.Children() {
		classify(child, r)
	}
}

// classifyAlternative implements spec.md 4.6 rule 1: HTML preferred over
// plain; the plain alternative (if present) attaches to the HTML part as
// its plain counterpart; any other alternatives become attachments.
func classifyAlternative(part *mimekit.Part, r *Result) {
	mb, ok := part.AsMultipart()
	if !ok {
		return
	}
	children := mb.Children()

	var htmlChild, plainChild, relatedChild *mimekit.Part
	var others []*mimekit.Part
	for _, c := range children {
		ct := c.EffectiveMediaType()
		switch {
		case ct.IsMultipart() && strings.EqualFold(ct.Subtype, "related") && htmlChild == nil:
			// An HTML-with-embedded-objects alternative: the related
			// subtree's primary part becomes the HTML body; its other
			// children are collected as embedded objects below once the
			// HtmlTextPart exists to hold them.
			relatedChild = c
			htmlChild = relatedPrimary(c)
		case strings.EqualFold(ct.Type, "text") && strings.EqualFold(ct.Subtype, "html") && htmlChild == nil:
			htmlChild = c
		case strings.EqualFold(ct.Type, "text") && strings.EqualFold(ct.Subtype, "plain") && plainChild == nil:
			plainChild = c
		default:
			others = append(others, c)
		}
	}

	switch {
	case htmlChild != nil:
		html := builder.HtmlTextPart{Charset: htmlChild.EffectiveMediaType().Charset(), HTML: leafString(htmlChild)}
		if relatedChild != nil {
			relatedObjectsInto(relatedChild, htmlChild, &html.Embedded)
		}
		if plainChild != nil {
			plain := builder.PlainTextPart{Charset: plainChild.EffectiveMediaType().Charset(), Text: leafString(plainChild)}
			html.PlainAlt = &plain
		}
		setText(r, html)
	case plainChild != nil:
		setText(r, builder.PlainTextPart{Charset: plainChild.EffectiveMediaType().Charset(), Text: leafString(plainChild)})
	}
	for _, o := range others {
		r.Attachments = append(r.Attachments, asAttachment(o))
	}
}

// classifyRelated implements spec.md 4.6 rule 2: the root (the "start"
// parameter's referent, or the first child if absent — see DESIGN.md's
// Open Question decision) is the primary content; the remaining children
// become embedded objects.
func classifyRelated(part *mimekit.Part, r *Result) {
	primary := relatedPrimary(part)
	if primary == nil {
		return
	}
	ct := primary.EffectiveMediaType()
	if strings.EqualFold(ct.Type, "text") && strings.EqualFold(ct.Subtype, "html") {
		html := builder.HtmlTextPart{Charset: ct.Charset(), HTML: leafString(primary)}
		relatedObjectsInto(part, primary, &html.Embedded)
		setText(r, html)
		return
	}
	// A non-HTML primary with related parts has no text role; the primary
	// alone is reported as an attachment, and the other children are not
	// reported.
	r.Attachments = append(r.Attachments, asAttachment(primary))
}

// relatedPrimary returns a multipart/related part's primary child: the one
// named by its Content-Type's "start" parameter (matched against each
// child's Content-ID), or the first child if "start" is absent or unmatched.
func relatedPrimary(part *mimekit.Part) *mimekit.Part {
	mb, ok := part.AsMultipart()
	if !ok || len(mb.Children()) == 0 {
		return nil
	}
	mt := part.EffectiveMediaType()
	if start, ok := mt.Params.Get("start"); ok && start != "" {
		want := strings.Trim(start, "<>")
		for _, c := range mb.Children() {
			if cid, _ := c.Header.Get("Content-ID"); strings.Trim(cid, "<>") == want {
				return c
			}
		}
	}
	return mb.Children()[0]
}

// relatedObjectsInto appends every non-primary child of related (a
// multipart/related part) to into as an EmbeddedObject.
func relatedObjectsInto(related *mimekit.Part, primary *mimekit.Part, into *[]builder.EmbeddedObject) {
	mb, ok := related.AsMultipart()
	if !ok {
		return
	}
	for _, c := range mb.Children() {
		if c == primary {
			continue
		}
		cid, _ := c.Header.Get("Content-ID")
		lb, ok := c.AsLeaf()
		if !ok {
			continue
		}
		*into = append(*into, builder.EmbeddedObject{
			ContentID: strings.Trim(cid, "<>"),
			MediaType: c.EffectiveMediaType().Full(),
			Handler:   lb.Handler,
			Encoding:  lb.Encoding,
		})
	}
}

// classifyLeaf implements spec.md 4.6 rule 5 for a non-multipart,
// non-message leaf part.
func classifyLeaf(part *mimekit.Part, r *Result) {
	cd, _ := part.ContentDisposition()
	mt := part.EffectiveMediaType()

	if cd.IsAttachment() {
		r.Attachments = append(r.Attachments, asAttachment(part))
		return
	}
	if strings.EqualFold(mt.Type, "text") {
		if strings.EqualFold(mt.Subtype, "html") {
			setText(r, builder.HtmlTextPart{Charset: mt.Charset(), HTML: leafString(part)})
		} else {
			setText(r, builder.PlainTextPart{Charset: mt.Charset(), Text: leafString(part)})
		}
		return
	}
	// Non-text, non-attachment-disposition leaf: an attachment (a bare
	// inline image with no referencing HTML part never reaches this
	// function as an embedded object, since embedded-object detection only
	// happens inside a multipart/related's own classifyRelated/
	// classifyAlternative handling — a standalone inline non-text leaf has
	// no related sibling set to belong to, so it degrades to attachment,
	// matching spec.md 4.6 rule 5's "else attachments").
	r.Attachments = append(r.Attachments, asAttachment(part))
}

func setText(r *Result, t builder.TextPart) {
	if r.Text == nil {
		r.Text = t
	}
}

func asAttachment(part *mimekit.Part) builder.Attachment {
	lb, ok := part.AsLeaf()
	if !ok {
		// message/rfc822 or other structural attachment: re-generate is the
		// caller's job; flatten only reports the part's declared shape.
		return builder.Attachment{MediaType: part.EffectiveMediaType().Full()}
	}
	cd, _ := part.ContentDisposition()
	return builder.Attachment{
		Filename:  cd.Filename(),
		MediaType: part.EffectiveMediaType().Full(),
		Handler:   lb.Handler,
		Encoding:  lb.Encoding,
	}
}

func leafString(part *mimekit.Part) string {
	lb, ok := part.AsLeaf()
	if !ok {
		return ""
	}
	r, err := lb.Handler.Reader()
	if err != nil {
		return ""
	}
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}
