package failure

import (
	"errors"
	"net/http"
)

// Machine-readable error codes carried alongside HTTP status codes.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
	CodeSlotUnavailable = "SLOT_UNAVAILABLE"
	CodeSlotNotFound    = "SLOT_NOT_FOUND"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	ErrCode string `json:"err_code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, ErrCode: CodeForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, ErrCode: CodeForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			ErrCode: CodeValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		ErrCode: CodeValidation,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		ErrCode: CodeUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			ErrCode: CodeInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		ErrCode: CodeNotFound,
		Message: entityName,
	}
}

// NotFoundWithCode returns a not found Failure carrying an entity specific error code.
func NotFoundWithCode(errCode, msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		ErrCode: errCode,
		Message: msg,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		ErrCode: CodeConflict,
		Message: message,
	}
}

// ConflictWithCode returns a conflict Failure carrying a domain specific error code.
func ConflictWithCode(errCode, msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		ErrCode: errCode,
		Message: msg,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		ErrCode: CodeForbidden,
		Message: msg,
	}
}

// GetCode returns the HTTP status code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetErrCode returns the machine-readable error code of an error interface.
func GetErrCode(err error) string {
	var fail *Failure
	if errors.As(err, &fail) && fail.ErrCode != "" {
		return fail.ErrCode
	}

	return CodeInternal
}

// GetDetails returns additional error details when present.
func GetDetails(err error) any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}
