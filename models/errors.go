package models

import "errors"

// ErrInvalidRequest is matched by every *InvalidRequestError via errors.Is.
var ErrInvalidRequest = errors.New("invalid request")

// InvalidRequestError reports a caller-supplied value that failed validation.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}
