package mimekit

import (
	"strings"

	"github.com/mimekit/mimekit/field"
)

// Field is a single header field: a name plus its raw, unfolded value text.
// The typed Value is decoded lazily (spec.md 4.4: "each field's value is
// handed to its typed parser lazily (on access)"), via the Header's
// registry, so a malformed value never prevents the rest of the message
// from parsing.
type Field struct {
	// Name preserves the original casing as it appeared in the message.
	Name string
	// Raw is the unfolded value text (RFC 2047 encoded words included,
	// still encoded).
	Raw string
}

// CanonicalName returns Name with net/textproto-style canonicalization
// applied (e.g. "content-type" -> "Content-Type"), for comparisons and
// display; lookup itself is fully case-insensitive regardless.
func (f Field) CanonicalName() string { return canonicalize(f.Name) }

func canonicalize(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "-")
}

// Header is an ordered sequence of Fields. Field names are matched
// case-insensitively; the same name may repeat (e.g. Received). Order is
// preserved on round-trip (spec.md 3).
type Header struct {
	fields   []Field
	registry *field.Registry
}

// NewHeader returns an empty Header using field.DefaultRegistry for typed
// decoding. Use WithRegistry to use a different one.
func NewHeader() *Header {
	return &Header{registry: field.DefaultRegistry}
}

// WithRegistry returns h with its typed-value registry replaced; it does
// not copy h's fields, it configures the same Header in place, and returns
// h for chaining.
func (h *Header) WithRegistry(r *field.Registry) *Header {
	h.registry = r
	return h
}

// Registry returns the registry this Header uses for typed decoding.
func (h *Header) Registry() *field.Registry {
	if h.registry == nil {
		return field.DefaultRegistry
	}
	return h.registry
}

// Add appends a new field, regardless of whether name already exists.
func (h *Header) Add(name, raw string) {
	h.fields = append(h.fields, Field{Name: name, Raw: raw})
}

// Set replaces the first occurrence of name with raw, removing any further
// occurrences; if name isn't present, it's appended.
func (h *Header) Set(name, raw string) {
	lower := strings.ToLower(name)
	replaced := false
	out := h.fields[:0]
	for _, f := range h.fields {
		if strings.ToLower(f.Name) == lower {
			if !replaced {
				out = append(out, Field{Name: name, Raw: raw})
				replaced = true
			}
			continue
		}
		out = append(out, f)
	}
	h.fields = out
	if !replaced {
		h.fields = append(h.fields, Field{Name: name, Raw: raw})
	}
}

// SetValue sets name's raw value from a typed field.Value's Generate().
func (h *Header) SetValue(name string, v field.Value) { h.Set(name, v.Generate()) }

// Remove deletes every occurrence of name.
func (h *Header) Remove(name string) {
	lower := strings.ToLower(name)
	out := h.fields[:0]
	for _, f := range h.fields {
		if strings.ToLower(f.Name) != lower {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Get returns the first occurrence of name's raw value and whether it was
// present.
func (h *Header) Get(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, f := range h.fields {
		if strings.ToLower(f.Name) == lower {
			return f.Raw, true
		}
	}
	return "", false
}

// GetAll returns every occurrence of name's raw value, in order.
func (h *Header) GetAll(name string) []string {
	lower := strings.ToLower(name)
	var out []string
	for _, f := range h.fields {
		if strings.ToLower(f.Name) == lower {
			out = append(out, f.Raw)
		}
	}
	return out
}

// Has reports whether name is present at all.
func (h *Header) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Fields returns every field in header order. The returned slice is a copy;
// mutating it does not affect h.
func (h *Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// TypedValue decodes name's first occurrence through the Header's
// registry. If the typed parse fails, it returns (field.Raw{raw}, err) —
// the caller decides whether a degraded Raw view is acceptable or whether
// to surface the error (spec.md 7: "surfaced only if the caller requests a
// typed view").
func (h *Header) TypedValue(name string) (field.Value, error) {
	raw, ok := h.Get(name)
	if !ok {
		return nil, nil
	}
	factory, _ := h.Registry().Lookup(name)
	v, err := factory(raw)
	if err != nil {
		return field.Raw{Text: raw}, &Error{Kind: KindMalformedFieldValue, Field: name, Detail: err.Error()}
	}
	return v, nil
}

// TypedValues decodes every occurrence of name.
func (h *Header) TypedValues(name string) ([]field.Value, error) {
	raws := h.GetAll(name)
	if len(raws) == 0 {
		return nil, nil
	}
	factory, _ := h.Registry().Lookup(name)
	out := make([]field.Value, len(raws))
	var firstErr error
	for i, raw := range raws {
		v, err := factory(raw)
		if err != nil {
			out[i] = field.Raw{Text: raw}
			if firstErr == nil {
				firstErr = &Error{Kind: KindMalformedFieldValue, Field: name, Detail: err.Error()}
			}
			continue
		}
		out[i] = v
	}
	return out, firstErr
}
