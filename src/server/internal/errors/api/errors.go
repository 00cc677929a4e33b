package api

import "github.com/cockroachdb/errors"

type ErrorCode string

var DefaultErrorCode = ErrorCode("unknown_error")

// Error is what every usecase returns, gateways turn it into a status code and a message
type Error struct {
	ErrorCode     ErrorCode
	UserMessage   string
	InternalError error
}

func CommitError(err error, errorCode ErrorCode, userMessage string) *Error {
	if err == nil {
		err = errors.NewWithDepth(1, userMessage)
	}

	return &Error{
		ErrorCode:     errorCode,
		UserMessage:   userMessage,
		InternalError: err,
	}
}

// WrapError adds context to the internal error, the code and user message stay as committed
func WrapError(err *Error, msg string) *Error {
	wrapped := *err
	wrapped.InternalError = errors.WrapWithDepth(1, err.InternalError, msg)
	return &wrapped
}

func (e Error) Unwrap() error {
	return e.InternalError
}

func (e Error) Error() string {
	return e.InternalError.Error()
}
