package dto

import "net/http"

// Wire-level error codes, ERR_<CATEGORY>_<DESCRIPTION>. Domain codes are
// translated onto these before they leave the API.

// General
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
)

// Authorization. ErrCodeNotVendor covers vendor-only operations tried by
// a customer account; ErrCodeQuotaExceeded a full tier product quota.
const (
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotVendor          = "ERR_NOT_VENDOR"
	ErrCodeQuotaExceeded      = "ERR_QUOTA_EXCEEDED"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
)

// Resources
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rules
const (
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeCategoryInUse = "ERR_CATEGORY_IN_USE"
)

// Malformed input
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps wire codes onto HTTP statuses.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,

	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotVendor:          http.StatusForbidden,
	ErrCodeQuotaExceeded:      http.StatusForbidden,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountDeactivated: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeCategoryInUse: http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus resolves a wire code, defaulting to 500 for codes the
// map does not know.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping translates domain error codes to wire codes.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	// Identity
	"EMAIL_TAKEN":         ErrCodeAlreadyExists,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountDeactivated,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"INVALID_EMAIL":       ErrCodeValidationFormat,
	"INVALID_NAME":        ErrCodeValidation,
	"INVALID_PASSWORD":    ErrCodeValidation,
	"INVALID_PROFILE":     ErrCodeValidation,
	"INVALID_TIER":        ErrCodeInvalidInput,
	"INVALID_ROLE":        ErrCodeInvalidInput,
	"NOT_A_VENDOR":        ErrCodeNotVendor,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,

	// Catalog
	"QUOTA_EXCEEDED":        ErrCodeQuotaExceeded,
	"NOT_OWNER":             ErrCodeForbidden,
	"INVALID_CATEGORY":      ErrCodeInvalidInput,
	"INVALID_CATEGORY_ID":   ErrCodeInvalidInput,
	"INVALID_VENDOR_ID":     ErrCodeInvalidInput,
	"INVALID_PRICE":         ErrCodeValidationRange,
	"INVALID_STOCK":         ErrCodeValidationRange,
	"INVALID_PRODUCT_NAME":  ErrCodeValidation,
	"INVALID_CATEGORY_NAME": ErrCodeValidation,
	"INVALID_IMAGE_URL":     ErrCodeValidationFormat,
	"INVALID_IMAGE":         ErrCodeValidationFormat,
	"DUPLICATE_CATEGORY":    ErrCodeAlreadyExists,
	"CATEGORY_IN_USE":       ErrCodeCategoryInUse,
	"SLUG_EXHAUSTED":        ErrCodeConflict,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes without a mapping pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
