package field

import (
	"strings"

	"github.com/mimekit/mimekit/codec"
)

// ParamMap is an ordered, case-insensitive-keyed set of header parameters
// (media type or content-disposition parameters), reassembled from RFC 2231
// continuations/charset forms by codec.CombineParams. Parameter order is
// preserved on round-trip but isn't semantically significant (spec.md 5).
type ParamMap struct {
	order  []string // canonical (lowercased) keys, first-seen order
	values map[string]codec.Param
}

func newParamMap() ParamMap {
	return ParamMap{values: make(map[string]codec.Param)}
}

// NewParamMap returns an empty ParamMap, ready for Set calls. Exported for
// callers outside this package (builder, attachment, flatten) that need to
// construct a MediaType or ContentDisposition from scratch.
func NewParamMap() ParamMap { return newParamMap() }

// Get returns the named parameter's value and whether it was present. Name
// lookup is case-insensitive.
func (p ParamMap) Get(name string) (string, bool) {
	v, ok := p.values[strings.ToLower(name)]
	return v.Value, ok
}

// Charset returns the RFC 2231 charset tag attached to the named parameter,
// if any.
func (p ParamMap) Charset(name string) string {
	return p.values[strings.ToLower(name)].Charset
}

// Names returns parameter names in first-seen order.
func (p ParamMap) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Set adds or replaces a parameter. Replacing preserves the original
// position in Names().
func (p *ParamMap) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := p.values[key]; !ok {
		p.order = append(p.order, key)
	}
	p.values[key] = codec.Param{Value: value}
}

// parseParamMap lexes a "; name=value; name2=value2..." tail (the part of a
// header value following the initial token(s)) into a ParamMap, handling
// quoted-string values and RFC 2231 continuations/extended forms.
func parseParamMap(s string) ParamMap {
	var raw []codec.RawParam
	var names []string // first-seen order of base names, for stable output
	seen := map[string]bool{}

	for _, tok := range splitParams(s) {
		eq := strings.IndexByte(tok, '=')
		if eq < 0 {
			continue // malformed parameter with no value; skip permissively
		}
		name := strings.ToLower(strings.TrimSpace(tok[:eq]))
		val := strings.TrimSpace(tok[eq+1:])
		extended := strings.HasSuffix(name, "*")
		val = unquoteParamValue(val)
		raw = append(raw, codec.RawParam{Name: name, Value: val, Extended: extended})

		base := name
		if i := strings.IndexByte(base, '*'); i >= 0 {
			base = base[:i]
		}
		if !seen[base] {
			seen[base] = true
			names = append(names, base)
		}
	}

	combined := codec.CombineParams(raw)
	pm := newParamMap()
	for _, base := range names {
		if v, ok := combined[base]; ok {
			pm.order = append(pm.order, base)
			pm.values[base] = v
		}
	}
	return pm
}

// splitParams splits a ";"-delimited parameter tail, respecting quoted
// strings (a ';' inside double quotes doesn't start a new parameter).
func splitParams(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\' && inQuotes:
			cur.WriteByte(c)
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == ';' && !inQuotes:
			if strings.TrimSpace(cur.String()) != "" {
				out = append(out, cur.String())
			}
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, cur.String())
	}
	return out
}

// unquoteParamValue strips RFC 2045 quoted-string quoting and backslash
// escapes from a parameter value, if present; a bare token is returned
// unchanged.
func unquoteParamValue(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	inner := v[1 : len(v)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}

// quoteParamValue adds RFC 2045 quoted-string quoting around v if it
// contains characters that aren't safe in a bare token.
func quoteParamValue(v string) string {
	if v != "" && isToken(v) {
		return v
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' || v[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// isToken reports whether s is a valid RFC 2045 "token": one or more
// characters excluding specials, space, and control characters.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 32 || c >= 127 {
			return false
		}
		switch c {
		case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
			return false
		}
	}
	return true
}

// generateParams renders a ParamMap as "; name=value" pairs in Names()
// order, quoting values that need it.
func generateParams(p ParamMap) string {
	var sb strings.Builder
	for _, name := range p.Names() {
		v, _ := p.Get(name)
		sb.WriteString("; ")
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(quoteParamValue(v))
	}
	return sb.String()
}
