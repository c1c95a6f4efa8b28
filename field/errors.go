package field

import "fmt"

// newFieldErr builds a plain error describing a typed-parse failure.
// mimekit.Header.TypedValue wraps these in
// mimekit.Error{Kind: KindMalformedFieldValue} when a typed view is
// requested, per spec.md 7.
func newFieldErr(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
