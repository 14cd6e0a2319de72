package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks a required capability
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidStatus is used when a status value is outside the allowed set
	ErrCodeInvalidStatus = "ERR_INVALID_STATUS"
	// ErrCodeInvalidPeriod is used when report period parameters are invalid
	ErrCodeInvalidPeriod = "ERR_INVALID_PERIOD"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the per-minute request budget is exhausted
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 400 Bad Request, the response lists valid alternatives
	ErrCodeInvalidStatus: http.StatusBadRequest,
	ErrCodeInvalidPeriod: http.StatusBadRequest,
	ErrCodeInvalidState:  http.StatusBadRequest,

	// Input errors
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"INVALID_STATUS":   ErrCodeInvalidStatus,
	"INVALID_PERIOD":   ErrCodeInvalidPeriod,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
