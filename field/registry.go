package field

import (
	"fmt"
	"strings"
)

// Registry maps field names (case-insensitive) to the Factory that parses
// their value. It is a process-wide, read-mostly table: built once via
// NewStandardRegistry, then Frozen so that later registration attempts
// return an error rather than silently mutating shared state (spec.md 5).
//
// This generalizes the field-factory singleton design note in spec.md 9,
// adapted from the dispatch-table idiom used for IMAP command lookup in
// alienscience-imapsrv's command.go (an interface value keyed by a token),
// here keyed by field name instead of command verb.
type Registry struct {
	factories map[string]Factory
	frozen    bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name. It returns an error if
// the registry has been frozen.
func (r *Registry) Register(name string, f Factory) error {
	if r.frozen {
		return fmt.Errorf("field: registry is frozen, cannot register %q", name)
	}
	r.factories[canonicalFieldName(name)] = f
	return nil
}

// Freeze prevents further registration. Idempotent.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup returns the Factory registered for name, or (parseRaw, false) if
// none is registered — unknown names yield Raw per spec.md 4.2.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[canonicalFieldName(name)]
	if !ok {
		return parseRaw, false
	}
	return f, true
}

// WithField returns a copy of r with name's factory overridden, without
// mutating r — the copy starts unfrozen regardless of r's state, so a host
// application can derive a customized registry from the frozen default
// before its own first parse/generate call, per spec.md 5's allowance for
// "the host explicitly register[ing] additional field types before any
// parse/generate call".
func (r *Registry) WithField(name string, f Factory) *Registry {
	cp := &Registry{factories: make(map[string]Factory, len(r.factories)+1)}
	for k, v := range r.factories {
		cp.factories[k] = v
	}
	cp.factories[canonicalFieldName(name)] = f
	return cp
}

func canonicalFieldName(name string) string { return strings.ToLower(name) }

// NewStandardRegistry returns a frozen Registry seeded with the field
// types spec.md 4.2 lists, plus the supplemented Keywords field
// (SPEC_FULL.md 4.3).
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	std := map[string]Factory{
		"date":                    parseDateTime,
		"from":                    parseAddressList,
		"reply-to":                parseAddressList,
		"sender":                  parseMailboxField,
		"to":                      parseAddressList,
		"cc":                      parseAddressList,
		"bcc":                     parseAddressList,
		"subject":                 parseText,
		"comments":                parseText,
		"keywords":                parseText,
		"message-id":              parseMessageID,
		"in-reply-to":             parseMessageIDList,
		"references":              parseMessageIDList,
		"content-type":            parseMediaType,
		"content-transfer-encoding": parseEncoding,
		"content-disposition":     parseDisposition,
		"content-id":              parseMessageID,
		"content-location":        parseText,
	}
	for name, f := range std {
		_ = r.Register(name, f)
	}
	r.Freeze()
	return r
}

// DefaultRegistry is the process-wide registry used by the parser and
// generator when no custom Registry is supplied. It is frozen at package
// initialization, per spec.md 5's "construct at startup, freeze, never
// modified thereafter".
var DefaultRegistry = NewStandardRegistry()
