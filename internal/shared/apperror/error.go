package apperror

import "fmt"

// AppError is the error type services return for anything a client should
// see. Handlers render it through ToHTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	// rendered under error.details
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Code so a copy made by WithDetails still
// satisfies errors.Is against the sentinel it came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// WithDetails returns a copy; the receiver is left untouched.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}
