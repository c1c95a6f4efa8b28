// Package clock provides the "Clock" external collaborator from spec.md 6,
// letting callers supply a fixed or fake time source instead of wall-clock
// time — the same role the teacher's rewriteOptions.Now field (and its
// -fake-now flag in main.go) plays for rendmail's rewriting pass.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Real is the default Clock, backed by time.Now.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed is a Clock that always returns the same instant, for deterministic
// tests and for reproducing a specific Date/Message-ID at generation time.
type Fixed struct{ At time.Time }

func (f Fixed) Now() time.Time { return f.At }
