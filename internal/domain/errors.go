package domain

import "fmt"

// FailureKind classifies why a fetch produced no data. The enumeration is
// closed so callers and tests can assert on why a cycle was skipped instead
// of only that it was.
type FailureKind string

const (
	// FailureTransport covers network errors and non-2xx upstream responses.
	FailureTransport FailureKind = "transport"
	// FailureShape covers responses that arrive but cannot be used: malformed
	// JSON or a body missing the expected nested structure.
	FailureShape FailureKind = "shape"
)

// FetchError is the typed failure returned by the feed fetcher.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failure: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
