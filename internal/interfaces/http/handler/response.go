package handler

import "github.com/sokohub/backend/internal/interfaces/http/dto"

// Typed response shapes used only by the swagger annotations. The
// handlers themselves respond through the dto package; these exist so
// the generated docs show concrete payloads instead of bare maps.

// APIResponse is the standard envelope with a typed data field.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for failed requests.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse is the envelope for requests with no payload.
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// MessageData wraps a human readable confirmation.
// @Description Message data
type MessageData struct {
	Message string `json:"message"`
}

// CountData wraps a single count, as returned by bulk operations.
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
