package codec

import (
	"bytes"
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	got := Fold("Subject: a very long subject line that should wrap across more than seventy eight characters total", "\r\n")
	for _, ln := range got[:len(got)-1] {
		if len(ln) > MaxRecommendedLineLen+2 { // +2 for the CRLF
			t.Errorf("folded line %q exceeds recommended length", ln)
		}
	}
	joined := ""
	for _, ln := range got {
		joined += ln
	}
	unfolded := Unfold(splitLines(joined))
	if unfolded == "" {
		t.Error("Unfold produced empty result")
	}
}

// splitLines is a tiny helper for TestFold; it isn't a codec primitive.
func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func TestQEncodeDecode(t *testing.T) {
	for _, s := range []string{"", "hello", "hello world", "caf\xc3\xa9", "=?weird?="} {
		got := QDecode(QEncode([]byte(s)))
		if string(got) != s {
			t.Errorf("QDecode(QEncode(%q)) = %q", s, got)
		}
	}
}

func TestQPEncodeDecode(t *testing.T) {
	for _, b := range [][]byte{
		[]byte(""),
		[]byte("hello"),
		[]byte("line one\nline two\n"),
		{0x00, 0x01, 0xff, '='},
		[]byte("trailing space \nand tab\t\n"),
	} {
		got := QPDecode(string(QPEncode(b)))
		if !bytes.Equal(got, normalizeNL(b)) {
			t.Errorf("QPDecode(QPEncode(%q)) = %q", b, got)
		}
	}
}

// normalizeNL mimics QPEncode's unconditional CRLF-ification of bare LF, so
// round-trip comparisons account for the normalization rather than
// expecting byte-identical output for inputs using bare "\n".
func normalizeNL(b []byte) []byte {
	var out []byte
	for i := 0; i < len(b); i++ {
		if b[i] == '\r' && i+1 < len(b) && b[i+1] == '\n' {
			out = append(out, '\r', '\n')
			i++
		} else if b[i] == '\n' {
			out = append(out, '\r', '\n')
		} else if b[i] == '\r' {
			out = append(out, '\r', '\n')
		} else {
			out = append(out, b[i])
		}
	}
	return out
}

func TestB64EncodeDecode(t *testing.T) {
	for _, b := range [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("hello world"),
		{0x00, 0x01, 0x02, 0xff, 0xfe},
		make([]byte, 1000),
	} {
		got := B64Decode(string(B64Encode(b)))
		if !reflect.DeepEqual(got, b) && !(len(got) == 0 && len(b) == 0) {
			t.Errorf("B64Decode(B64Encode(%v)) = %v", b, got)
		}
	}
}

func TestDecodeWordsPlainText(t *testing.T) {
	words := DecodeWords("hello world")
	if len(words) != 1 || string(words[0].Text) != "hello world" || words[0].Charset != "us-ascii" {
		t.Errorf("DecodeWords(plain) = %+v", words)
	}
}

func TestDecodeWordsEncoded(t *testing.T) {
	words := DecodeWords("=?utf-8?Q?Caf=C3=A9?=")
	if len(words) != 1 {
		t.Fatalf("DecodeWords = %+v, want 1 word", words)
	}
	if words[0].Charset != "utf-8" || string(words[0].Text) != "Caf\xc3\xa9" {
		t.Errorf("DecodeWords = %+v", words[0])
	}
}

func TestDecodeWordsAdjacentMerge(t *testing.T) {
	words := DecodeWords("=?utf-8?Q?Hello=2C?= =?utf-8?Q?_World!?=")
	if len(words) != 1 {
		t.Fatalf("DecodeWords adjacent = %+v, want 1 merged word", words)
	}
	if string(words[0].Text) != "Hello, World!" {
		t.Errorf("merged word = %q", words[0].Text)
	}
}

func TestDecodeWordsMalformedFallsBackToRaw(t *testing.T) {
	words := DecodeWords("=?bogus?Z?not-a-real-encoding?=")
	if len(words) != 1 || words[0].Charset != "us-ascii" {
		t.Errorf("DecodeWords(malformed) = %+v", words)
	}
}

func TestCombineParamsContinuation(t *testing.T) {
	got := CombineParams([]RawParam{
		{Name: "filename*0", Value: "long"},
		{Name: "filename*1", Value: "name"},
		{Name: "filename*2", Value: ".txt"},
	})
	if got["filename"].Value != "longname.txt" {
		t.Errorf("CombineParams continuation = %+v", got["filename"])
	}
}

func TestCombineParamsExtendedCharset(t *testing.T) {
	got := CombineParams([]RawParam{
		{Name: "filename*0*", Value: "iso-8859-1''%A3%20rate.txt"},
	})
	p := got["filename"]
	if p.Charset != "iso-8859-1" || p.Value != "\xa3 rate.txt" {
		t.Errorf("CombineParams extended = %+v", p)
	}
}

func TestCombineParamsMixedFourSegments(t *testing.T) {
	got := CombineParams([]RawParam{
		{Name: "title*0*", Value: "us-ascii'en'This%20is%20"},
		{Name: "title*1*", Value: "even%20more%20"},
		{Name: "title*2*", Value: "unnecessarily%20"},
		{Name: "title*3*", Value: "long%20title"},
	})
	want := "This is even more unnecessarily long title"
	if got["title"].Value != want {
		t.Errorf("CombineParams 4-segment = %q, want %q", got["title"].Value, want)
	}
	if got["title"].Lang != "en" {
		t.Errorf("CombineParams language = %q, want en", got["title"].Lang)
	}
}

func TestChooseEncoding(t *testing.T) {
	if ChooseEncoding([]byte("hello world")) != 'Q' {
		t.Error("ChooseEncoding(ascii) should pick Q")
	}
	if ChooseEncoding([]byte("\xc3\xa9\xc3\xa9\xc3\xa9\xc3\xa9")) != 'B' {
		t.Error("ChooseEncoding(mostly non-ascii) should pick B")
	}
}
