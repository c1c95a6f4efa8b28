package field

import "strings"

// MediaType is a Content-Type value: a top-level type, a subtype, and an
// ordered, case-insensitive-keyed parameter map (spec.md 3/4.3). RFC 2231
// parameter continuations and charset-tagged values are resolved by
// ParamMap.
type MediaType struct {
	Type    string
	Subtype string
	Params  ParamMap
}

// DefaultMediaType is RFC 2045 5.2's "Content-Type defaults", used whenever
// a part has no Content-Type header or the header fails to parse.
func DefaultMediaType() MediaType {
	mt := MediaType{Type: "text", Subtype: "plain", Params: newParamMap()}
	mt.Params.Set("charset", "us-ascii")
	return mt
}

// Full returns "type/subtype".
func (m MediaType) Full() string {
	return strings.ToLower(m.Type) + "/" + strings.ToLower(m.Subtype)
}

// IsMultipart reports whether the top-level type is "multipart".
func (m MediaType) IsMultipart() bool { return strings.EqualFold(m.Type, "multipart") }

// IsMessage reports whether this is "message/rfc822".
func (m MediaType) IsMessage() bool {
	return strings.EqualFold(m.Type, "message") && strings.EqualFold(m.Subtype, "rfc822")
}

// Boundary returns the "boundary" parameter, if any.
func (m MediaType) Boundary() string {
	b, _ := m.Params.Get("boundary")
	return b
}

// Charset returns the "charset" parameter, defaulting to "us-ascii" for
// text/* types with none specified (RFC 2045 5.2).
func (m MediaType) Charset() string {
	if c, ok := m.Params.Get("charset"); ok {
		return c
	}
	if strings.EqualFold(m.Type, "text") {
		return "us-ascii"
	}
	return ""
}

func parseMediaType(raw string) (Value, error) {
	typ, sub, rest, ok := splitTypeSubtype(raw)
	if !ok {
		return nil, newFieldErr("malformed media type %q", raw)
	}
	return MediaType{Type: typ, Subtype: sub, Params: parseParamMap(rest)}, nil
}

// splitTypeSubtype splits "type/subtype; params..." into its type, subtype,
// and the unparsed parameter tail.
func splitTypeSubtype(raw string) (typ, sub, rest string, ok bool) {
	head := raw
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		head = raw[:i]
		rest = raw[i:]
	}
	head = strings.TrimSpace(head)
	slash := strings.IndexByte(head, '/')
	if slash < 0 {
		return "", "", "", false
	}
	typ = strings.TrimSpace(head[:slash])
	sub = strings.TrimSpace(head[slash+1:])
	if typ == "" || sub == "" {
		return "", "", "", false
	}
	return typ, sub, rest, true
}

func (m MediaType) Generate() string {
	return strings.ToLower(m.Type) + "/" + strings.ToLower(m.Subtype) + generateParams(m.Params)
}
