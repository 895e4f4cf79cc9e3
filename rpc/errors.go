package rpc

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyMethod is returned when a call is made without a method name.
var ErrEmptyMethod = errors.New("rpc: empty method name")

// ErrMissingPageURL is returned by New when a relative base URL has to be
// resolved for an HTTP transport but no page URL was configured.
var ErrMissingPageURL = errors.New("rpc: relative base URL requires a page URL")

// ErrCrossOriginDenied is returned by XDTransport when the endpoint does not
// allow the calling page's origin.
var ErrCrossOriginDenied = errors.New("rpc: cross-origin request denied")

// HTTPRequestError is used when an RPC over HTTP encounters an error during
// transport.
type HTTPRequestError struct {
	Response *http.Response
	Reason   string
}

func (err HTTPRequestError) Error() string {
	return fmt.Sprintf("http rpc request error: %s", err.Reason)
}

// StatusCode returns the HTTP status of the failed response, or 0.
func (err HTTPRequestError) StatusCode() int {
	if err.Response == nil {
		return 0
	}
	return err.Response.StatusCode
}

// ArgError is returned when an argument value fails to serialize.
type ArgError struct {
	Key   string
	Cause error
}

func (err ArgError) Error() string {
	return fmt.Sprintf("rpc: failed to serialize argument %q: %s", err.Key, err.Cause)
}

func (err ArgError) Unwrap() error {
	return err.Cause
}

// ParseError is returned when a response body is not valid JSON.
type ParseError struct {
	Method string
	Body   []byte
	Cause  error
}

func (err ParseError) Error() string {
	return fmt.Sprintf("rpc: failed to parse %s response: %s", err.Method, err.Cause)
}

func (err ParseError) Unwrap() error {
	return err.Cause
}
