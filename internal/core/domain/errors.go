package domain

import (
	"fmt"
	"net/http"
)

// ErrorCode represents categorized error types.
// These codes are stable and can be used for programmatic error handling.
type ErrorCode string

const (
	ErrCodeOrgNotFound    ErrorCode = "org_not_found"
	ErrCodeFetchFailed    ErrorCode = "fetch_failed"
	ErrCodeTransportError ErrorCode = "transport_error"
	ErrCodeEncodingFailed ErrorCode = "encoding_failed"
	ErrCodeBadRequest     ErrorCode = "bad_request"
	ErrCodeServiceError   ErrorCode = "service_error"
)

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is a structured error with code, message, and optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeOrgNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeFetchFailed, ErrCodeTransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Title returns a user-friendly title for this error code.
func (c ErrorCode) Title() string {
	switch c {
	case ErrCodeOrgNotFound:
		return "Not Found"
	case ErrCodeFetchFailed:
		return "Logo Fetch Failed"
	case ErrCodeTransportError:
		return "Upstream Unreachable"
	case ErrCodeEncodingFailed:
		return "Logo Encoding Failed"
	case ErrCodeBadRequest:
		return "Invalid Request"
	case ErrCodeServiceError:
		return "Service Error"
	default:
		return "Error"
	}
}

// JSONErrorResponse is the standard JSON error format for API endpoints.
type JSONErrorResponse struct {
	Error JSONErrorDetail `json:"error"`
}

// JSONErrorDetail contains error details.
type JSONErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewJSONErrorResponse creates a JSON error response from an AppError.
func NewJSONErrorResponse(err *AppError) JSONErrorResponse {
	return JSONErrorResponse{
		Error: JSONErrorDetail{
			Code:    err.Code.String(),
			Message: err.Message,
		},
	}
}

// OrgNotFoundError creates an organization not found error.
func OrgNotFoundError(orgID string) *AppError {
	return &AppError{
		Code:    ErrCodeOrgNotFound,
		Message: fmt.Sprintf("The organization %q was not found", orgID),
		Cause:   ErrOrgNotFound,
	}
}

// FetchFailedError creates a fetch failure error (non-success HTTP status).
func FetchFailedError(message string) *AppError {
	return &AppError{Code: ErrCodeFetchFailed, Message: message}
}

// TransportError creates a transport-level error (network unreachable).
func TransportError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeTransportError, Message: message, Cause: cause}
}

// EncodingFailedError creates an encoding failure error.
func EncodingFailedError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeEncodingFailed, Message: message, Cause: cause}
}

// BadRequestError creates a bad request error.
func BadRequestError(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message}
}

// ServiceError creates a service error.
func ServiceError(message string) *AppError {
	return &AppError{Code: ErrCodeServiceError, Message: message}
}
