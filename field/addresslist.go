package field

import (
	"strings"

	"github.com/mimekit/mimekit/codec"
)

// Group is a named group of mailboxes: "group-name: mailbox, mailbox;"
// (RFC 5322 3.4).
type Group struct {
	Name      Text
	Mailboxes []Mailbox
}

// AddressListItem is either a Mailbox or a Group.
type AddressListItem struct {
	Mailbox *Mailbox
	Group   *Group
}

// AddressList is an ordered, comma-separated sequence of mailboxes and/or
// groups (spec.md 3), used for To/Cc/Bcc/From/Reply-To.
type AddressList struct {
	Items []AddressListItem
}

// Mailboxes flattens the list, expanding any groups into their members.
func (a AddressList) Mailboxes() []Mailbox {
	var out []Mailbox
	for _, it := range a.Items {
		if it.Mailbox != nil {
			out = append(out, *it.Mailbox)
		} else if it.Group != nil {
			out = append(out, it.Group.Mailboxes...)
		}
	}
	return out
}

func parseAddressList(raw string) (Value, error) {
	items, err := parseAddressListItems(raw)
	if err != nil {
		return nil, err
	}
	return AddressList{Items: items}, nil
}

func parseAddressListItems(raw string) ([]AddressListItem, error) {
	var items []AddressListItem
	for _, tok := range splitAddressList(raw) {
		tok = strings.TrimSpace(stripComments(tok))
		if tok == "" {
			continue
		}
		if colon := findGroupColon(tok); colon >= 0 {
			name := strings.TrimSpace(tok[:colon])
			body := strings.TrimSuffix(strings.TrimSpace(tok[colon+1:]), ";")
			var members []Mailbox
			for _, m := range splitAddressList(body) {
				m = strings.TrimSpace(m)
				if m == "" {
					continue
				}
				mb, _, err := parseOneMailbox(m)
				if err != nil {
					return nil, err
				}
				members = append(members, mb)
			}
			items = append(items, AddressListItem{Group: &Group{
				Name:      Text{Words: codec.DecodeWords(name)},
				Mailboxes: members,
			}})
			continue
		}
		mb, _, err := parseOneMailbox(tok)
		if err != nil {
			return nil, err
		}
		items = append(items, AddressListItem{Mailbox: &mb})
	}
	return items, nil
}

// findGroupColon returns the index of the ':' that introduces a group
// (RFC 5322 3.4), or -1 if tok isn't a group. A ':' inside angle brackets
// or quotes doesn't count.
func findGroupColon(tok string) int {
	inQuotes, inAngle := false, false
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '"':
			inQuotes = !inQuotes
		case '<':
			inAngle = true
		case '>':
			inAngle = false
		case ':':
			if !inQuotes && !inAngle {
				return i
			}
		}
	}
	return -1
}

// splitAddressList splits a comma-separated address list, respecting
// quoted strings and angle-address brackets (a comma inside either doesn't
// split) and group member lists (a comma after a group's closing ';' does).
func splitAddressList(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes, inAngle := false, false
	groupDepth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == '<' && !inQuotes:
			inAngle = true
			cur.WriteByte(c)
		case c == '>' && !inQuotes:
			inAngle = false
			cur.WriteByte(c)
		case c == ':' && !inQuotes && !inAngle:
			groupDepth++
			cur.WriteByte(c)
		case c == ';' && !inQuotes && !inAngle && groupDepth > 0:
			groupDepth--
			cur.WriteByte(c)
			out = append(out, cur.String())
			cur.Reset()
		case c == ',' && !inQuotes && !inAngle && groupDepth == 0:
			out = append(out, cur.String())
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

func (a AddressList) Generate() string {
	var parts []string
	for _, it := range a.Items {
		switch {
		case it.Mailbox != nil:
			parts = append(parts, it.Mailbox.Generate())
		case it.Group != nil:
			var members []string
			for _, m := range it.Group.Mailboxes {
				members = append(members, m.Generate())
			}
			parts = append(parts, it.Group.Name.Generate()+": "+strings.Join(members, ", ")+";")
		}
	}
	return strings.Join(parts, ", ")
}
