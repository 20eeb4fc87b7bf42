package orglogo

import (
	"github.com/philiph/orglogo/internal/core/domain"
)

// Re-export error types from domain package
type ErrorCode = domain.ErrorCode
type AppError = domain.AppError
type JSONErrorResponse = domain.JSONErrorResponse
type JSONErrorDetail = domain.JSONErrorDetail

// Re-export error code constants
const (
	ErrCodeOrgNotFound    = domain.ErrCodeOrgNotFound
	ErrCodeFetchFailed    = domain.ErrCodeFetchFailed
	ErrCodeTransportError = domain.ErrCodeTransportError
	ErrCodeEncodingFailed = domain.ErrCodeEncodingFailed
	ErrCodeBadRequest     = domain.ErrCodeBadRequest
	ErrCodeServiceError   = domain.ErrCodeServiceError
)

// Re-export error constructors
var (
	OrgNotFoundError     = domain.OrgNotFoundError
	FetchFailedError     = domain.FetchFailedError
	TransportError       = domain.TransportError
	EncodingFailedError  = domain.EncodingFailedError
	BadRequestError      = domain.BadRequestError
	ServiceError         = domain.ServiceError
	NewJSONErrorResponse = domain.NewJSONErrorResponse
)
