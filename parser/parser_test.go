package parser

import (
	"io"
	"strings"
	"testing"

	"github.com/mimekit/mimekit/field"
)

func TestParseSimpleMessage(t *testing.T) {
	raw := "From: alice@example.org\r\n" +
		"To: bob@example.org\r\n" +
		"Subject: hello\r\n" +
		"Date: Fri, 21 Nov 1997 09:55:06 -0600\r\n" +
		"\r\n" +
		"Hello, Bob!\r\n"

	msg, err := Parse(strings.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	from, ok := msg.Header.Get("From")
	if !ok || from != "alice@example.org" {
		t.Errorf("From = %q, %v", from, ok)
	}
	lb, ok := msg.AsLeaf()
	if !ok {
		t.Fatal("expected a leaf body")
	}
	r, _ := lb.Handler.Reader()
	body, _ := io.ReadAll(r)
	if string(body) != "Hello, Bob!\r\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseMultipartAlternative(t *testing.T) {
	raw := "Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"preamble text\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html body</p>\r\n" +
		"--b1--\r\n" +
		"epilogue text\r\n"

	msg, err := Parse(strings.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mb, ok := msg.AsMultipart()
	if !ok {
		t.Fatal("expected a multipart body")
	}
	children := mb.Children()
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].ContentType().Full() != "text/plain" {
		t.Errorf("children[0] type = %s", children[0].ContentType().Full())
	}
	if children[1].ContentType().Full() != "text/html" {
		t.Errorf("children[1] type = %s", children[1].ContentType().Full())
	}
	if !strings.Contains(string(mb.Preamble), "preamble text") {
		t.Errorf("Preamble = %q", mb.Preamble)
	}
	if !strings.Contains(string(mb.Epilogue), "epilogue text") {
		t.Errorf("Epilogue = %q", mb.Epilogue)
	}
}

func TestParseMissingBoundaryDegradesToLeaf(t *testing.T) {
	raw := "Content-Type: multipart/mixed\r\n\r\nwhatever\r\n"
	msg, err := Parse(strings.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Parse (non-strict) should not fail: %v", err)
	}
	if _, ok := msg.AsLeaf(); !ok {
		t.Error("expected degradation to a leaf body")
	}
}

func TestParseMissingBoundaryStrictFails(t *testing.T) {
	raw := "Content-Type: multipart/mixed\r\n\r\nwhatever\r\n"
	_, err := Parse(strings.NewReader(raw), Options{Strict: true})
	if err == nil {
		t.Fatal("expected an error in strict mode")
	}
}

func TestParseUnterminatedMultipartNonStrict(t *testing.T) {
	raw := "Content-Type: multipart/mixed; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"body without a closing boundary\r\n"
	msg, err := Parse(strings.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Parse (non-strict): %v", err)
	}
	mb, ok := msg.AsMultipart()
	if !ok || len(mb.Children()) != 1 {
		t.Fatal("expected the one child to have been parsed before EOF")
	}
}

func TestParseQuotedPrintableBody(t *testing.T) {
	raw := "Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Caf=C3=A9\r\n"
	msg, err := Parse(strings.NewReader(raw), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lb, _ := msg.AsLeaf()
	if lb.Encoding != field.EncQuotedPrintable {
		t.Errorf("Encoding = %q", lb.Encoding)
	}
	decoded, err := DecodeBody(lb)
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if string(decoded) != "Caf\xc3\xa9\r\n" {
		t.Errorf("DecodeBody = %q", decoded)
	}
}
