package utils

import (
	"errors"
	"net/http"

	internal_errors "github.com/klse-analytics/portal/shared/errors"
)

// WriteErrorAndStatusCode answers with the status carried by err, or 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	// default error is 500
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
