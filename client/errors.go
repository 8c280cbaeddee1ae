package client

import "fmt"

// Operation phrases embedded in TransportError messages. Callers match on
// these to identify the failing operation.
const (
	opExecuteQuery = "Failed to execute query"
	opVectorSearch = "Failed to perform vector search"
	opSubscribe    = "Failed to subscribe to stream"
	opHealthCheck  = "Health check failed"
)

// TransportError reports a client operation that could not complete:
// connection failure, non-success status, timeout, or a malformed
// response. It always names the failing operation and carries the
// underlying cause.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// UnavailableError reports a transport that was requested but cannot be
// constructed. It is returned at construction time only.
type UnavailableError struct {
	Mode TransportMode
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s transport unavailable: %v", e.Mode, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
