package service

import (
	"fmt"
)

// ErrorKind classifies a failed API operation.
type ErrorKind string

const (
	// ErrKindTransport: no connection could be established, the remote
	// process is not answering (DNS failure, connection refused, timeout).
	ErrKindTransport ErrorKind = "transport"
	// ErrKindHTTP: the connection succeeded but the status code was
	// outside 2xx.
	ErrKindHTTP ErrorKind = "http"
	// ErrKindMalformed: status 2xx but the body fails shape validation.
	ErrKindMalformed ErrorKind = "malformed_response"
	// ErrKindNotFound: HTTP 404 from the detail endpoint, the contract id
	// does not exist upstream.
	ErrKindNotFound ErrorKind = "not_found"
)

// APIError carries the classified failure of a list or detail call: the
// kind, the URL that was attempted, the HTTP status when one was received,
// and a remediation hint for the operator.
type APIError struct {
	Kind   ErrorKind
	URL    string
	Status int
	Hint   string
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case ErrKindTransport:
		return fmt.Sprintf("cannot reach the analysis API at %s: %v", e.URL, e.Err)
	case ErrKindHTTP:
		return fmt.Sprintf("the analysis API returned HTTP %d for %s", e.Status, e.URL)
	case ErrKindMalformed:
		return fmt.Sprintf("the analysis API returned an unusable response from %s: %v", e.URL, e.Err)
	case ErrKindNotFound:
		return fmt.Sprintf("contract not found at %s", e.URL)
	}
	return fmt.Sprintf("analysis API request to %s failed: %v", e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
