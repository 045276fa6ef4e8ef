package errors

import "net/http"

// ErrorWithStatusCode carries the HTTP status a handler should answer with.
// Errors of any other type are treated as internal server errors.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// BadRequest wraps a message as a 400.
func BadRequest(msg string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}

// TooManyRequests wraps a message as a 429.
func TooManyRequests(msg string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusTooManyRequests}
}
