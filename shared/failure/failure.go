// Package failure carries an HTTP status alongside an error so services can decide
// how a problem surfaces without importing the transport.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	kind    error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the domain sentinel so errors.Is keeps working across the wrap.
func (e *Failure) Unwrap() error {
	return e.kind
}

func newFailure(code int, msg string, kind error) error {
	return &Failure{Code: code, Message: msg, kind: kind}
}

// Wrap tags kind with a status. An empty msg reuses the sentinel's text.
func Wrap(code int, kind error, msg string) error {
	if msg == "" && kind != nil {
		msg = kind.Error()
	}

	return newFailure(code, msg, kind)
}

func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error(), nil)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg, nil)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg, nil)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg, nil)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg, nil)
}

func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg, nil)
}

// Unprocessable is for well-formed requests the current state refuses.
func Unprocessable(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, msg, nil)
}

func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusInternalServerError, err.Error(), err)
}

// GetCode returns the status carried by err, or 500 for anything untagged.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a client: the Failure's own message, or a
// generic one for untagged errors whose text may leak driver or network details.
func PublicMessage(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Message
	}

	return http.StatusText(http.StatusInternalServerError)
}
