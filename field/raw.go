package field

// Raw is the fallback Value for unregistered field names and for fields
// whose typed parse failed (spec.md 7, KindMalformedFieldValue): it carries
// the original, uninterpreted value text unchanged.
type Raw struct {
	Text string
}

func (r Raw) Generate() string { return r.Text }

func parseRaw(raw string) (Value, error) { return Raw{Text: raw}, nil }
