package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"catalog-api/internal/domain"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateRequest validates the request body against a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// RequireJSON rejects request bodies sent with a media type other than
// application/json. A missing Content-Type is accepted.
func RequireJSON(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil || mediaType != "application/json" {
				logger.Debug("Unsupported media type", zap.String("content_type", contentType))
				RespondWithError(w, http.StatusUnsupportedMediaType,
					fmt.Sprintf("Unsupported media type %q in request.", contentType))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DecodeAndValidate decodes JSON request body and validates it. An empty body
// decodes as an empty object.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return ValidateRequest(v)
}

// FormatValidationErrors converts decode and validator errors into field
// messages keyed by JSON field name. Failures not tied to a field go under
// non_field_errors.
func FormatValidationErrors(err error) map[string][]string {
	fields := make(map[string][]string)

	var validationErrors validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &validationErrors):
		for _, e := range validationErrors {
			fields[e.Field()] = append(fields[e.Field()], getErrorMessage(e))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = append(fields[typeErr.Field], typeMismatchMessage(typeErr.Type))
	case errors.As(err, &typeErr):
		fields[domain.NonFieldErrors] = []string{"Invalid data. Expected a dictionary, but got " + jsonKind(typeErr.Value) + "."}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		fields[domain.NonFieldErrors] = []string{"JSON parse error - " + err.Error()}
	default:
		fields[domain.NonFieldErrors] = []string{"Invalid data."}
	}

	return fields
}

// jsonKind names a JSON value kind the way API clients see it.
func jsonKind(value string) string {
	switch {
	case value == "array":
		return "list"
	case value == "string":
		return "str"
	case value == "bool":
		return "bool"
	case strings.HasPrefix(value, "number"):
		return "number"
	default:
		return value
	}
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this field has no more than " + e.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "gt":
		return "Ensure this value is greater than " + e.Param() + "."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(e.Value()))
	default:
		return "Invalid value."
	}
}

func typeMismatchMessage(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.String:
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}
