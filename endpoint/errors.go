package endpoint

import (
	"fmt"
	"net/http"
)

// ErrMethodNotFound is returned when dispatching an unregistered method.
type ErrMethodNotFound struct {
	Method string
}

func (err ErrMethodNotFound) Error() string {
	return fmt.Sprintf("method not found: %s", err.Method)
}

// ErrInvalidArgs is returned when arguments are not valid JSON or do not fit
// the method's argument type.
type ErrInvalidArgs struct {
	Key   string
	Cause error
}

func (err ErrInvalidArgs) Error() string {
	if err.Key == "" {
		return fmt.Sprintf("invalid arguments: %s", err.Cause)
	}
	return fmt.Sprintf("invalid argument %q: %s", err.Key, err.Cause)
}

func (err ErrInvalidArgs) Unwrap() error {
	return err.Cause
}

// statusCode maps dispatch errors onto HTTP statuses.
func statusCode(err error) int {
	switch err.(type) {
	case ErrMethodNotFound:
		return http.StatusNotFound
	case ErrInvalidArgs:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
