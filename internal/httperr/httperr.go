package httperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Err    error
	Status int
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return errors.Is(e.Err, target)
	}
	return t.Status == e.Status && errors.Is(t.Err, e.Err)
}

func New(err error, status int) error {
	return &Error{
		Err:    err,
		Status: status,
	}
}

func BadRequest(err error) error {
	return New(err, http.StatusBadRequest)
}

func Unauthorized(err error) error {
	return New(err, http.StatusUnauthorized)
}

func TooManyRequests(err error) error {
	return New(err, http.StatusTooManyRequests)
}

func BadGateway(err error) error {
	return New(err, http.StatusBadGateway)
}

func InternalServerError(err error) error {
	return New(err, http.StatusInternalServerError)
}
