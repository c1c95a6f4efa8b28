package generator

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/mimekit/mimekit"
	"github.com/mimekit/mimekit/field"
	"github.com/mimekit/mimekit/parser"
)

func TestGenerateRoundTripsSimpleMessage(t *testing.T) {
	raw := "From: alice@example.org\r\n" +
		"To: bob@example.org\r\n" +
		"Subject: hello\r\n" +
		"\r\n" +
		"Hello, Bob!\r\n"

	msg, err := parser.Parse(strings.NewReader(raw), parser.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Generate(&buf, msg, Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	msg2, err := parser.Parse(strings.NewReader(buf.String()), parser.Options{})
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if from, _ := msg2.Header.Get("From"); from != "alice@example.org" {
		t.Errorf("From = %q", from)
	}
	lb, _ := msg2.AsLeaf()
	body, _ := lb.Handler.Reader()
	got, _ := io.ReadAll(body)
	if string(got) != "Hello, Bob!\r\n" {
		t.Errorf("body = %q", got)
	}
}

func TestGenerateMultipart(t *testing.T) {
	root := mimekit.NewPart()
	root.Header.Set("Content-Type", `multipart/mixed; boundary="b1"`)
	mb := mimekit.NewMultipartBody("b1")
	root.Body = mb

	child := mimekit.NewPart()
	child.Header.Set("Content-Type", "text/plain")
	child.Body = mimekit.LeafBody{Handler: mimekit.NewByteHandler([]byte("part one\r\n")), Encoding: field.Enc7Bit}
	mb.AppendChild(root, child)

	msg := &mimekit.Message{Part: root}

	var buf bytes.Buffer
	if err := Generate(&buf, msg, Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "--b1\r\n") {
		t.Errorf("missing opening delimiter: %q", out)
	}
	if !strings.Contains(out, "--b1--\r\n") {
		t.Errorf("missing closing delimiter: %q", out)
	}
	if !strings.Contains(out, "part one") {
		t.Errorf("missing child content: %q", out)
	}
}

func TestBoundaryCollisionDetected(t *testing.T) {
	root := mimekit.NewPart()
	mb := mimekit.NewMultipartBody("b1")
	root.Body = mb
	child := mimekit.NewPart()
	child.Body = mimekit.LeafBody{Handler: mimekit.NewByteHandler([]byte("--b1\r\nmore\r\n")), Encoding: field.Enc7Bit}
	mb.AppendChild(root, child)
	msg := &mimekit.Message{Part: root}

	var buf bytes.Buffer
	err := Generate(&buf, msg, Options{})
	if err == nil {
		t.Fatal("expected a boundary collision error")
	}
}
