// Package apierr is the error model shared by every feature package.
// Handlers convert any error into an HTTP status and an {"errors": [...]} body.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeBusinessRule    Code = "BUSINESS_RULE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

const internalMessage = "internal error"

type APIError struct {
	Code     Code
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
}

// Is matches on Code so errors.Is(err, apierr.NotFound("")) works regardless of message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

func Validation(msgs ...string) *APIError {
	return &APIError{Code: CodeValidation, Messages: msgs}
}
func BusinessRule(msg string) *APIError {
	return &APIError{Code: CodeBusinessRule, Messages: []string{msg}}
}
func NotFound(msg string) *APIError {
	return &APIError{Code: CodeNotFound, Messages: []string{msg}}
}
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: CodeInvalidArgument, Messages: []string{msg}}
}
func Unauthorized(msg string) *APIError {
	return &APIError{Code: CodeUnauthorized, Messages: []string{msg}}
}
func Forbidden(msg string) *APIError {
	return &APIError{Code: CodeForbidden, Messages: []string{msg}}
}
func Conflict(msg string) *APIError {
	return &APIError{Code: CodeConflict, Messages: []string{msg}}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeValidation, CodeBusinessRule, CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeConflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// Body is the wire shape of every error response.
type Body struct {
	Errors []string `json:"errors"`
}

// BodyFrom never leaks the text of errors outside the taxonomy.
func BodyFrom(err error) Body {
	var api *APIError
	if errors.As(err, &api) && api.Code != CodeInternal {
		msgs := api.Messages
		if len(msgs) == 0 {
			msgs = []string{strings.ToLower(strings.ReplaceAll(string(api.Code), "_", " "))}
		}
		return Body{Errors: msgs}
	}
	return Body{Errors: []string{internalMessage}}
}
