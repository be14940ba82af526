package atc

import "fmt"

// StatusError is a non-2xx upstream response. 5xx is retried, 4xx is not.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream api returned status %d: %s", e.Code, e.Message)
}

// TransportError is a connection failure or a timeout, including one hit while
// the response body was still being read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "no response from upstream api: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "failed to decode upstream response: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// RequestError is a failure building the request.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }
