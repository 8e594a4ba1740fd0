package failure

import (
	"errors"
	"net/http"
)

// Failure is an error the client can act on. Code is the HTTP status it is answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

// Unwrap exposes the error a failure was built from, so callers can still match sentinel errors.
func (e *Failure) Unwrap() error {
	return e.cause
}

func newFailure(code int, msg string, cause error) *Failure {
	return &Failure{Code: code, Message: msg, cause: cause}
}

// BadRequest turns a validation or parsing error into a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error(), err)
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

// Conflict reports a request that is valid but clashes with current state, such as a full date range
// or an illegal status change.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg, nil)
}

// GetCode returns the status of the first Failure in err's chain, or 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
