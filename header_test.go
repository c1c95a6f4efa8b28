package mimekit

import "testing"

func TestHeaderOrderAndCaseInsensitiveLookup(t *testing.T) {
	h := NewHeader()
	h.Add("From", "a@x")
	h.Add("To", "b@x")
	h.Add("Received", "by mx1")
	h.Add("Received", "by mx2")

	if v, ok := h.Get("from"); !ok || v != "a@x" {
		t.Errorf("Get(from) = %q, %v", v, ok)
	}
	if got := h.GetAll("received"); len(got) != 2 || got[0] != "by mx1" || got[1] != "by mx2" {
		t.Errorf("GetAll(received) = %v", got)
	}

	names := []string{}
	for _, f := range h.Fields() {
		names = append(names, f.Name)
	}
	if want := []string{"From", "To", "Received", "Received"}; !stringsEqual(names, want) {
		t.Errorf("Fields() order = %v, want %v", names, want)
	}
}

func TestHeaderSetReplacesFirstAndDropsRest(t *testing.T) {
	h := NewHeader()
	h.Add("X-Tag", "one")
	h.Add("Other", "x")
	h.Add("X-Tag", "two")
	h.Set("X-Tag", "replaced")

	got := h.GetAll("x-tag")
	if len(got) != 1 || got[0] != "replaced" {
		t.Errorf("GetAll(x-tag) after Set = %v", got)
	}
}

func TestHeaderTypedValueDegradesOnBadDate(t *testing.T) {
	h := NewHeader()
	h.Add("Date", "not a date")
	v, err := h.TypedValue("date")
	if err == nil {
		t.Error("TypedValue(date) should report the parse failure")
	}
	if _, ok := v.(interface{ Generate() string }); !ok {
		t.Error("TypedValue(date) should still return a usable Raw fallback")
	}
}

func TestHeaderUnknownFieldIsRaw(t *testing.T) {
	h := NewHeader()
	h.Add("X-Whatever", "some value")
	v, err := h.TypedValue("x-whatever")
	if err != nil {
		t.Fatal(err)
	}
	if v.Generate() != "some value" {
		t.Errorf("TypedValue(x-whatever) = %q", v.Generate())
	}
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
