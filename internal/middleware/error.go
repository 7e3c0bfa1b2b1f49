package middleware

import (
	"net/http"

	"catalog-api/internal/response"

	"go.uber.org/zap"
)

// RespondWithError sends an error envelope without field details.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	response.Error(w, statusCode, message, nil)
}

// RespondWithValidationErrors sends a 400 envelope carrying field errors.
func RespondWithValidationErrors(w http.ResponseWriter, message string, errors map[string][]string) {
	response.Error(w, http.StatusBadRequest, message, errors)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
