package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the referenced product or rating does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a caller-supplied value rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FormatError reports a public identifier that does not match the codec's
// expected pattern.
type FormatError struct {
	ID     string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed product id %q: %s", e.ID, e.Reason)
}

// StoreError reports an infrastructure failure from the underlying storage.
// The in-progress operation has been fully rolled back when one is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
