package charset

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeFailOnInvalidUTF8(t *testing.T) {
	b := []byte{'a', 0xFF, 'b'}
	if _, err := decode(encoding.UTF8Validator, b, OnErrorFail); err == nil {
		t.Fatal("expected an error for invalid UTF-8 with OnErrorFail")
	}
}

func TestDecodeSubstituteInsertsReplacementChar(t *testing.T) {
	b := []byte{'a', 0xFF, 'b'}
	out, err := decode(encoding.UTF8Validator, b, OnErrorSubstitute)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Contains(out, []byte("a")) || !bytes.Contains(out, []byte("b")) {
		t.Fatalf("expected surrounding bytes preserved, got %q", out)
	}
	if !bytes.Contains(out, utf8Replacement) {
		t.Errorf("expected U+FFFD in output, got %q", out)
	}
}

func TestDecodeDropOmitsReplacementChar(t *testing.T) {
	b := []byte{'a', 0xFF, 'b'}
	out, err := decode(encoding.UTF8Validator, b, OnErrorDrop)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bytes.Contains(out, utf8Replacement) {
		t.Errorf("OnErrorDrop should not insert a replacement character, got %q", out)
	}
	if string(out) != "ab" {
		t.Errorf("got %q, want %q", out, "ab")
	}
}

// TestEncodeSubstituteAndDropDiffer locks in the fix for OnErrorDrop, which
// previously took the same code path as OnErrorSubstitute and produced
// identical output.
func TestEncodeSubstituteAndDropDiffer(t *testing.T) {
	in := []byte("a日b") // U+65E5 has no Windows-1252 encoding.
	subst, err := encode(charmap.Windows1252, in, OnErrorSubstitute)
	if err != nil {
		t.Fatalf("encode (substitute): %v", err)
	}
	drop, err := encode(charmap.Windows1252, in, OnErrorDrop)
	if err != nil {
		t.Fatalf("encode (drop): %v", err)
	}
	if bytes.Equal(subst, drop) {
		t.Fatal("OnErrorSubstitute and OnErrorDrop produced identical output")
	}
	if !bytes.Contains(subst, questionMarkReplacement) {
		t.Errorf("expected a replacement byte in substitute output, got %q", subst)
	}
	if bytes.Contains(drop, questionMarkReplacement) {
		t.Errorf("drop output should not contain a replacement byte, got %q", drop)
	}
	if !bytes.HasPrefix(subst, []byte("a")) || !bytes.HasPrefix(drop, []byte("a")) {
		t.Errorf("both outputs should retain the leading convertible byte: subst=%q drop=%q", subst, drop)
	}
}

func TestTranscodeSameCharsetIsNoop(t *testing.T) {
	b := []byte("hello")
	out, err := Default().Transcode(b, "utf-8", "UTF-8", OnErrorFail)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("got %q", out)
	}
}

func TestBytesDecodesWindows1252(t *testing.T) {
	// 0xE9 in windows-1252 is 'é'.
	out, err := Bytes([]byte{'c', 'a', 'f', 0xE9}, "windows-1252", OnErrorFail)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(out) != "café" {
		t.Errorf("got %q, want %q", out, "café")
	}
}
