package mimekit

// PartKind tags the concrete shape of a Part's Body, replacing the
// dynamicCast-style downcasts the design notes (spec.md 9) call out in the
// source this spec was distilled from.
type PartKind int

const (
	// KindLeaf: a leaf body backed by a ContentHandler.
	KindLeaf PartKind = iota
	// KindMultipart: a multipart body with an ordered sequence of children.
	KindMultipart
	// KindEncapsulated: a message/rfc822 body wrapping one child Part that
	// is itself a full message.
	KindEncapsulated
)

// Body is either a leaf, a multipart container, or an encapsulated message,
// per spec.md 3. Use Kind to discriminate, then the corresponding accessor
// (AsLeaf/AsMultipart/AsEncapsulated).
type Body interface {
	Kind() PartKind
}

// LeafBody is a leaf Body: opaque content plus its declared transfer
// encoding, inherited media type living on the enclosing Part's header.
type LeafBody struct {
	Handler  ContentHandler
	Encoding string // Content-Transfer-Encoding token, e.g. "base64"
}

func (LeafBody) Kind() PartKind { return KindLeaf }

// MultipartBody is a multipart container: a preamble, an ordered sequence
// of children, an epilogue, and the boundary string the children are
// delimited by.
type MultipartBody struct {
	Preamble []byte
	Epilogue []byte
	Boundary string

	children []*Part
}

func (MultipartBody) Kind() PartKind { return KindMultipart }

// Children returns the child parts in order. The returned slice is a fresh
// copy of the child list — callers must use InsertChild/RemoveChild to mutate
// the tree so ownership invariants (spec.md 3/9) are maintained.
func (b *MultipartBody) Children() []*Part {
	out := make([]*Part, len(b.children))
	copy(out, b.children)
	return out
}

// InsertChild attaches child as a new child of the Part owning b, at
// position i (appending if i < 0 or i >= len). child is detached from any
// existing parent first, enforcing the exclusive-parent invariant.
func (b *MultipartBody) InsertChild(owner *Part, i int, child *Part) {
	child.Detach()
	child.parent = owner
	if i < 0 || i >= len(b.children) {
		b.children = append(b.children, child)
		return
	}
	b.children = append(b.children, nil)
	copy(b.children[i+1:], b.children[i:])
	b.children[i] = child
}

// AppendChild is InsertChild at the end.
func (b *MultipartBody) AppendChild(owner *Part, child *Part) {
	b.InsertChild(owner, -1, child)
}

// RemoveChild detaches and removes child, if present as a direct child.
func (b *MultipartBody) RemoveChild(child *Part) {
	for i, c := range b.children {
		if c == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// NewMultipartBody returns a MultipartBody with the given boundary and no
// children.
func NewMultipartBody(boundary string) *MultipartBody {
	return &MultipartBody{Boundary: boundary}
}

// Reown reassigns every child's parent pointer to owner, without changing
// child order. It exists for the rare case where a Body value itself moves
// from one Part to another (e.g. attachmentHelper's root-promotion, which
// relocates a Part's Body onto a newly created child Part) — the Body's
// children still think their parent is the Part it used to live on.
func (b *MultipartBody) Reown(owner *Part) {
	for _, c := range b.children {
		c.parent = owner
	}
}

// EncapsulatedBody is a message/rfc822 body: a single child Part that is
// itself a complete message (with its own header and body).
type EncapsulatedBody struct {
	Child *Part
}

func (EncapsulatedBody) Kind() PartKind { return KindEncapsulated }

// Reown reassigns the encapsulated child's parent pointer to owner; see
// MultipartBody.Reown.
func (b EncapsulatedBody) Reown(owner *Part) { b.Child.parent = owner }
