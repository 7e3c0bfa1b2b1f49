// Package response writes every API reply in the same envelope:
//
//	success:   {"status", "message", "data", "count"?}
//	paginated: {"status", "message", "count", "next", "previous", "data"}
//	error:     {"status", "message", "errors"?}
package response

import (
	"encoding/json"
	"net/http"

	"catalog-api/internal/pagination"
)

// Envelope wraps a successful payload.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Count   *int   `json:"count,omitempty"`
	Data    T      `json:"data"`
}

// PageEnvelope wraps one page of a paginated listing.
type PageEnvelope[T any] struct {
	Status   int     `json:"status"`
	Message  string  `json:"message"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Data     []T     `json:"data"`
}

// ErrorEnvelope wraps a failure. Errors carries field-level detail and is
// omitted when there is none.
type ErrorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// Success writes data in a success envelope.
func Success[T any](w http.ResponseWriter, statusCode int, message string, data T) {
	JSON(w, statusCode, Envelope[T]{
		Status:  statusCode,
		Message: message,
		Data:    data,
	})
}

// SuccessWithCount writes data in a success envelope that also reports count.
func SuccessWithCount[T any](w http.ResponseWriter, statusCode int, message string, data T, count int) {
	JSON(w, statusCode, Envelope[T]{
		Status:  statusCode,
		Message: message,
		Count:   &count,
		Data:    data,
	})
}

// Paginated writes one page of data with links built from r.
func Paginated[T any](w http.ResponseWriter, r *http.Request, message string, page pagination.Page, data []T) {
	if data == nil {
		data = []T{}
	}
	next, previous := page.Links(pagination.RequestURL(r))
	JSON(w, http.StatusOK, PageEnvelope[T]{
		Status:   http.StatusOK,
		Message:  message,
		Count:    page.Count,
		Next:     next,
		Previous: previous,
		Data:     data,
	})
}

// Error writes an error envelope. Pass nil errors for message-only failures
// such as 401, 403 and 404.
func Error(w http.ResponseWriter, statusCode int, message string, errors any) {
	JSON(w, statusCode, ErrorEnvelope{
		Status:  statusCode,
		Message: message,
		Errors:  errors,
	})
}
