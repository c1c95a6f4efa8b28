// Package idgen provides the "randomness" external collaborator from
// spec.md 6: multipart boundary tokens and Message-ID local parts. Both are
// grounded on the randomBoundary helper in wneessen-go-mail's msgwriter.go
// (crypto/rand -> hex), generalized to also produce RFC 5322 msg-id values.
package idgen

import (
	"crypto/rand"
	"fmt"
)

// Source generates boundary tokens and message IDs. The zero value of the
// concrete Default type is ready to use; it exists as an interface so
// builder/generator callers can substitute a deterministic source in tests.
type Source interface {
	Boundary() string
	MessageID(domain string) string
}

// Default is the crypto/rand-backed Source used unless a caller supplies
// their own.
type Default struct{}

// Boundary returns a 60-hex-digit token, vanishingly unlikely to collide
// with any line of generated body content. Generator still verifies
// non-collision against actual child content per spec.md 4.5, since a
// random boundary is a strong default, not a proof.
func (Default) Boundary() string {
	var buf [30]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// MessageID returns a msg-id local part combined with domain, e.g.
// "a1b2c3...@domain", without angle brackets. Callers needing just the id-left half can split on
// '@'; Generate already wraps the whole thing in angle brackets via
// field.MessageID's Generate.
func (Default) MessageID(domain string) string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	if domain == "" {
		domain = "localhost"
	}
	return fmt.Sprintf("%x@%s", buf[:], domain)
}
