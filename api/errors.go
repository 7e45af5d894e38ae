package api

import "fmt"

// TimeoutError means the request exceeded the fixed per-request deadline.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, RequestTimeout)
}

// NetworkUnavailableError is a transport-level failure (DNS, refused
// connection), distinct from any HTTP-level error.
type NetworkUnavailableError struct {
	URL string
	Err error
}

func (e *NetworkUnavailableError) Error() string {
	return fmt.Sprintf("network error: unable to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkUnavailableError) Unwrap() error { return e.Err }
