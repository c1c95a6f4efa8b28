package field

import (
	"strings"

	"github.com/mimekit/mimekit/codec"
)

// Mailbox is a single RFC 5322 mailbox: an optional decoded display name
// plus an addr-spec (local-part "@" domain).
type Mailbox struct {
	Name   Text
	Local  string
	Domain string
}

// Address returns "local@domain", or just "local" if Domain is empty (a
// bare local-part with no '@', which the permissive parser accepts rather
// than rejecting outright).
func (m Mailbox) Address() string {
	if m.Domain == "" {
		return m.Local
	}
	return m.Local + "@" + m.Domain
}

func parseMailboxField(raw string) (Value, error) {
	mb, _, err := parseOneMailbox(raw)
	if err != nil {
		return nil, err
	}
	return mb, nil
}

// parseOneMailbox parses a single "[display-name] addr-spec" or
// "[display-name] <addr-spec>" mailbox from the start of s, returning the
// Mailbox and the text after a closing '>' (empty for a bare addr-spec).
// Current callers discard the remainder.
func parseOneMailbox(s string) (Mailbox, string, error) {
	s = stripComments(s)
	s = strings.TrimSpace(s)

	if i := strings.IndexByte(s, '<'); i >= 0 {
		name := strings.TrimSpace(s[:i])
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			return Mailbox{}, "", newFieldErr("unterminated angle address in %q", s)
		}
		addr := s[i+1 : i+j]
		rest := s[i+j+1:]
		local, domain := splitAddrSpec(addr)
		mb := Mailbox{Local: local, Domain: domain}
		if name != "" {
			mb.Name = Text{Words: codec.DecodeWords(unquotePhrase(name))}
		}
		return mb, rest, nil
	}

	// No angle brackets: the whole token is a bare addr-spec.
	local, domain := splitAddrSpec(s)
	return Mailbox{Local: local, Domain: domain}, "", nil
}

// splitAddrSpec splits "local@domain" on the last unquoted '@'. A missing
// '@' yields the whole string as the local-part and an empty domain, per
// the permissive-parsing policy (spec.md 7): no input should fail outright.
func splitAddrSpec(s string) (local, domain string) {
	s = strings.TrimSpace(s)
	inQuotes := false
	last := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '@':
			if !inQuotes {
				last = i
			}
		}
	}
	if last < 0 {
		return unquoteParamValue(s), ""
	}
	return unquoteParamValue(s[:last]), strings.TrimSpace(s[last+1:])
}

// unquotePhrase strips RFC 5322 quoted-string quoting from a display-name
// phrase, if it's wrapped in quotes; an unquoted phrase is returned as-is
// (still subject to RFC 2047 decoding by the caller).
func unquotePhrase(s string) string {
	s = strings.TrimSpace(s)
	return unquoteParamValue(s)
}

// stripComments removes RFC 5322 CFWS parenthesized comments from s,
// respecting nesting and quoted strings (a '(' inside a quoted string isn't
// a comment). Comments carry no semantic content per spec.md 4.3.
func stripComments(s string) string {
	var sb strings.Builder
	depth := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && depth == 0:
			inQuotes = !inQuotes
			sb.WriteByte(c)
		case c == '(' && !inQuotes:
			depth++
		case c == ')' && !inQuotes && depth > 0:
			depth--
		case depth == 0:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (m Mailbox) Generate() string {
	addr := m.Address()
	if len(m.Name.Words) == 0 {
		return addr
	}
	name := m.Name.Generate()
	if needsQuotingAsPhrase(name) {
		name = `"` + strings.ReplaceAll(strings.ReplaceAll(name, `\`, `\\`), `"`, `\"`) + `"`
	}
	return name + " <" + addr + ">"
}

// needsQuotingAsPhrase reports whether a display name must be wrapped in a
// quoted-string to be a legal RFC 5322 phrase (e.g. it contains a comma or
// other specials that would otherwise be ambiguous in an address list).
func needsQuotingAsPhrase(name string) bool {
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case ',', '<', '>', '@', ':', ';', '"', '\\', '(', ')':
			return true
		}
	}
	return false
}
