// Package field implements the typed header-field value variants from
// spec.md 3/4.2/4.3: Mailbox, AddressList, DateTime, Text, MediaType,
// ContentDisposition, MessageID, Encoding, and the Raw fallback, plus the
// process-wide Registry that maps field names to the right variant.
package field

// Value is a parsed, typed header field value. Every variant in this
// package implements it. Generate produces the canonical (unfolded) header
// value text; folding is applied later by the generator.
type Value interface {
	Generate() string
}

// Factory parses a raw (unfolded, but still possibly containing encoded
// words) header value into a typed Value.
type Factory func(raw string) (Value, error)
