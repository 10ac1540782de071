package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-taskboard/internal/assets"
	"github.com/adanyl0v/go-taskboard/internal/query"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, envelope{
		Status:       false,
		ResponseCode: err.Code,
		Message:      err.Message,
	})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, formatErrorMessage(message))
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

var serviceErrors = []struct {
	err     error
	code    int
	message string
}{
	{services.ErrNoFieldsToUpdate, http.StatusBadRequest, "At least one updatable field (besides id) must be provided"},
	{services.ErrUserPasswordMismatch, http.StatusUnauthorized, "Invalid password"},
	{services.ErrTokenExpired, http.StatusUnauthorized, "Token has expired."},
	{services.ErrTokenInvalid, http.StatusUnauthorized, "Invalid or expired token."},
	{services.ErrSessionRevoked, http.StatusForbidden, "User not found or token is invalid."},
	{services.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrRoleNotFound, http.StatusNotFound, "Role not found"},
	{services.ErrStatusNotFound, http.StatusNotFound, "Status not found"},
	{services.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{services.ErrInvalidAssignee, http.StatusNotFound, "Assignee not found"},
	{services.ErrUserAlreadyExists, http.StatusConflict, "Email already exists"},
	{services.ErrRoleAlreadyExists, http.StatusConflict, "Role already exists"},
	{services.ErrStatusAlreadyExists, http.StatusConflict, "Status already exists"},
	{services.ErrStatusOrderTaken, http.StatusConflict, "Status order number already exists"},
}

// newServiceError maps a service error onto its HTTP status. Unknown
// errors become a bare 500 so internals never reach the client.
func newServiceError(err error) apiError {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			return newAPIError(e.code, e.message)
		}
	}
	if errors.Is(err, query.ErrInvalidParams) || errors.Is(err, assets.ErrInvalidUpload) {
		return newBadRequestError(err.Error())
	}
	return newStatusTextError(http.StatusInternalServerError)
}

// newBindingError describes the first problem found while binding a
// request.
func newBindingError(err error) apiError {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)
	switch {
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		return newBadRequestError(describeFieldError(validationErrs[0]))
	case errors.As(err, &typeErr):
		return newBadRequestError(fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()))
	case errors.As(err, &syntaxErr):
		return newBadRequestError(errInvalidRequestBody.Error())
	}
	return newBadRequestError(err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "objectid":
		return fmt.Sprintf("%q must be a valid 24 character hex id", field)
	case "notblank":
		return fmt.Sprintf("%q is not allowed to be empty", field)
	case "len":
		if field == "mobile" {
			return "Mobile number must be 10 digits"
		}
		return fmt.Sprintf("%q length must be %s characters long", field, fe.Param())
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		if field == "mobile" {
			return "Mobile number must be 10 digits"
		}
		return fmt.Sprintf("%q must be a number", field)
	}
	return fmt.Sprintf("%q is invalid", field)
}

var backslashes = regexp.MustCompile(`\\+`)

// formatErrorMessage strips quotes and backslashes, turns semicolons into
// commas and capitalises the first letter.
func formatErrorMessage(message string) string {
	message = strings.ReplaceAll(message, `"`, "")
	message = backslashes.ReplaceAllString(message, "")
	message = strings.ReplaceAll(message, ";", ",")

	r, size := utf8.DecodeRuneInString(message)
	if r == utf8.RuneError {
		return message
	}
	return string(unicode.ToUpper(r)) + message[size:]
}
