package mimekit

import "testing"

func TestPartDefaultMediaType(t *testing.T) {
	p := NewPart()
	mt := p.EffectiveMediaType()
	if mt.Full() != "text/plain" || mt.Charset() != "us-ascii" {
		t.Errorf("EffectiveMediaType() = %+v", mt)
	}
}

func TestMultipartChildOwnershipInvariant(t *testing.T) {
	root := NewPart()
	root.Header.Set("Content-Type", `multipart/mixed; boundary="b"`)
	mb := NewMultipartBody("b")
	root.Body = mb

	child := NewPart()
	mb.AppendChild(root, child)
	if child.Parent() != root {
		t.Error("AppendChild did not set parent")
	}
	if len(mb.Children()) != 1 {
		t.Error("AppendChild did not add child")
	}

	other := NewPart()
	otherBody := NewMultipartBody("c")
	other.Body = otherBody
	otherBody.AppendChild(other, child) // moves child from root to other
	if child.Parent() != other {
		t.Error("moving child to a new parent did not update Parent()")
	}
	if len(mb.Children()) != 0 {
		t.Error("child should have been removed from its original parent")
	}
}

func TestPartDetach(t *testing.T) {
	root := NewPart()
	mb := NewMultipartBody("b")
	root.Body = mb
	child := NewPart()
	mb.AppendChild(root, child)

	child.Detach()
	if child.Parent() != nil {
		t.Error("Detach did not clear parent")
	}
	if len(mb.Children()) != 0 {
		t.Error("Detach did not remove child from parent's children")
	}
}

func TestPartClonePreservesStructureAndSharesHandlers(t *testing.T) {
	root := NewPart()
	mb := NewMultipartBody("b")
	root.Body = mb
	leaf := NewPart()
	handler := NewByteHandler([]byte("hello"))
	leaf.Body = LeafBody{Handler: handler, Encoding: "7bit"}
	mb.AppendChild(root, leaf)

	clone := root.Clone()
	cmb, ok := clone.AsMultipart()
	if !ok || len(cmb.Children()) != 1 {
		t.Fatal("clone did not preserve multipart structure")
	}
	clonedLeaf := cmb.Children()[0]
	if clonedLeaf.Parent() != clone {
		t.Error("cloned child's parent should be the clone root")
	}
	lb, _ := clonedLeaf.AsLeaf()
	if lb.Handler.(ByteHandler).Bytes == nil {
		t.Fatal("cloned leaf lost its content handler")
	}
	origBytes, _ := leaf.AsLeaf()
	if string(origBytes.Handler.(ByteHandler).Bytes) != string(lb.Handler.(ByteHandler).Bytes) {
		t.Error("cloned content diverged from original")
	}

	// Mutating the clone's header must not affect the original.
	clone.Header.Set("X-Test", "changed")
	if root.Header.Has("X-Test") {
		t.Error("Clone shared the original Header")
	}
}
