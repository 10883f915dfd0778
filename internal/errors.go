package internal

import "fmt"

// UnauthenticatedError indicates the server rejected the request with 401.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string {
	return e.Message
}

// ForbiddenError indicates the server rejected the request with 403.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// RequestError represents any other non-success API response
type RequestError struct {
	StatusCode int
	Message    string
	Details    map[string]interface{}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// UnreachableError represents a failure to reach the API server at all
type UnreachableError struct {
	Target string
	Err    error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("cannot connect to %s (is the server running?): %v", e.Target, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates the configured request timeout was exceeded
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out (try again or increase the configured timeout): %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// LocalStateError indicates the local credential store rejected a write.
// Store reads never produce this; a failed read is treated as "no credential".
type LocalStateError struct {
	Err error
}

func (e *LocalStateError) Error() string {
	return fmt.Sprintf("credential store unavailable: %v", e.Err)
}

func (e *LocalStateError) Unwrap() error {
	return e.Err
}

// StreamError indicates a streaming request failed before any data arrived
type StreamError struct {
	StatusCode int
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream request failed with status %d", e.StatusCode)
}
