package domain

import "fmt"

// UpstreamError reports a failed call to an external service (AWS or Bedrock).
// It is distinct from an empty Result: the data could not be obtained at all.
type UpstreamError struct {
	Service string
	Op      string
	Err     error
}

func NewUpstreamError(service, op string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Op: op, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
