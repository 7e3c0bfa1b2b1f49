package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/pagination"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const notFoundMessage = "Not found."

type bodyRequest interface {
	malformed() map[string][]string
}

// decodeRequest decodes and validates the JSON body into req and returns the
// field errors found, or nil.
func decodeRequest(r *http.Request, req bodyRequest) map[string][]string {
	fields := make(map[string][]string)
	if err := middleware.DecodeAndValidate(r, req); err != nil {
		fields = middleware.FormatValidationErrors(err)
	}
	for field, messages := range req.malformed() {
		fields[field] = append(fields[field], messages...)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// writeError maps a service error onto the error envelope. message is used
// for validation failures, the other cases carry their own message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, message string, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		logger.Debug(message, zap.Error(err))
		middleware.RespondWithValidationErrors(w, message, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, pagination.ErrInvalidPage):
		middleware.RespondWithError(w, http.StatusNotFound, pagination.InvalidPageMessage)
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, domain.ErrConflict):
		logger.Warn(message, zap.Error(err))
		middleware.RespondWithError(w, http.StatusConflict, "Conflicting concurrent update, please retry.")
	default:
		logger.Error(message,
			zap.Error(err),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID reads the {id} route parameter. Routes only match digits, so a
// failure here is an id too large for int64, which cannot exist.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// NotFound answers unknown routes with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithError(w, http.StatusNotFound, notFoundMessage)
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithError(w, http.StatusMethodNotAllowed, "Method \""+r.Method+"\" not allowed.")
}
