package httputils

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func BadRequest(message string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: message}
}

// HandleError writes err as a JSON error body. Only HTTPError messages reach
// the client; anything else becomes a generic 500.
func HandleError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		JSONError(w, httpErr.Code, httpErr.Message)
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	JSONError(w, http.StatusInternalServerError, "Internal server error")
}
