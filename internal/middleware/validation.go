package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

// BindError turns a gin binding failure into an application error so it flows
// through HandleAPIError like any other.
func BindError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		details := make(map[string]interface{}, len(verrs))
		for _, fe := range verrs {
			details[jsonName(fe)] = formatValidationError(fe)
		}
		return &apperrors.CustomError{
			Err:     apperrors.ErrValidationFailed,
			Message: formatValidationError(first),
			Field:   jsonName(first),
			Details: details,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.As(err, &syntaxErr):
		return apperrors.NewValidationError("Request body is not valid JSON")
	case errors.As(err, &typeErr):
		return apperrors.NewFieldValidationError(typeErr.Field,
			fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	case errors.Is(err, apperrors.ErrValidationFailed):
		return err
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid request format").
		WithDetails(map[string]interface{}{"reason": err.Error()})
}

func jsonName(e validator.FieldError) string {
	name := e.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
