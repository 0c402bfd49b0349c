// Package response defines the JSON envelope returned by every handler.
package response

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func OK(msg string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Message:    msg,
	}
}

func Created(msg string) Response {
	return Response{
		StatusCode: http.StatusCreated,
		Message:    msg,
	}
}

func Error(code int, msg string) Response {
	return Response{
		StatusCode: code,
		Message:    msg,
	}
}

// ValidationError maps validator failures to a per-field violation list
// instead of one concatenated message.
func ValidationError(errs validator.ValidationErrors) Response {
	violations := make([]Violation, 0, len(errs))

	for _, err := range errs {
		var msg string

		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is required", err.Field())
		case "email":
			msg = fmt.Sprintf("field %s is not a valid email", err.Field())
		case "min":
			msg = fmt.Sprintf("field %s is shorter than %s characters", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("field %s is not valid", err.Field())
		}

		violations = append(violations, Violation{
			Field:   err.Field(),
			Rule:    err.ActualTag(),
			Message: msg,
		})
	}

	return Response{
		StatusCode: http.StatusBadRequest,
		Message:    "validation failed",
		Violations: violations,
	}
}
