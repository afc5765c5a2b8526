package main

import (
	"errors"
	"fmt"
)

var (
	// Transport/status failures.
	ErrTransport        = errors.New("transport failure")
	ErrUnexpectedStatus = errors.New("unexpected status")

	// Payload failures: a 200 whose expected field is missing or malformed.
	ErrMissingField     = errors.New("missing field")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownUserType  = errors.New("unknown user type")

	ErrFlowBusy     = errors.New("flow already in progress")
	ErrFlowFinished = errors.New("flow already routed")
	ErrFlowClosed   = errors.New("flow closed")

	ErrNoValue      = errors.New("no value stored")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrRateLimited  = errors.New("too many attempts")
	ErrFormMismatch = errors.New("submitted form does not match a pending request")
)

// statusError wraps a non-200 result into ErrUnexpectedStatus, keeping any transport error.
func statusError(result HttpResult) error {
	if result.Err != nil {
		return result.Err
	}
	return &StatusError{Code: result.StatusCode, Message: result.Body.Message()}
}

type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v %d", ErrUnexpectedStatus, e.Code)
	}
	return fmt.Sprintf("%v %d: %s", ErrUnexpectedStatus, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
