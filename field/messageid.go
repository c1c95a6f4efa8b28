package field

import "strings"

// MessageID is an addr-spec-shaped identifier (RFC 5322 3.6.4), used for
// Message-ID and Content-ID. ID excludes the enclosing angle brackets.
type MessageID struct {
	ID string
}

func parseMessageID(raw string) (Value, error) {
	ids := splitMessageIDs(raw)
	if len(ids) == 0 {
		return nil, newFieldErr("no message-id found in %q", raw)
	}
	return MessageID{ID: ids[0]}, nil
}

func (m MessageID) Generate() string { return "<" + m.ID + ">" }

// MessageIDList is an ordered list of MessageIDs, used for In-Reply-To and
// References, which may legally cite more than one message.
type MessageIDList struct {
	IDs []MessageID
}

func parseMessageIDList(raw string) (Value, error) {
	var list MessageIDList
	for _, id := range splitMessageIDs(raw) {
		list.IDs = append(list.IDs, MessageID{ID: id})
	}
	return list, nil
}

func (l MessageIDList) Generate() string {
	var parts []string
	for _, id := range l.IDs {
		parts = append(parts, id.Generate())
	}
	return strings.Join(parts, " ")
}

// splitMessageIDs extracts the contents of each "<...>" token in s, in
// order; tokens without angle brackets are ignored (a msg-id is always
// angle-bracketed per RFC 5322 3.6.4).
func splitMessageIDs(s string) []string {
	var ids []string
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			break
		}
		ids = append(ids, s[i+1:i+j])
		s = s[i+j+1:]
	}
	return ids
}
