package dto

import "time"

// Response is the envelope every endpoint returns. Success carries
// data and optional pagination meta; failure carries an ErrorInfo and
// never a data field.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo is the error half of the envelope. Code is one of the
// ErrCode constants; Details holds structured extras such as
// validation failures or quota state.
type ErrorInfo struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// Meta is the pagination block on list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ValidationDetail describes a single field validation failure.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// QuotaDetail carries the product quota state behind a quota
// rejection so vendor dashboards can show usage against the tier
// limit.
type QuotaDetail struct {
	CurrentCount int64  `json:"current_count"`
	Limit        int    `json:"limit"`
	Tier         string `json:"tier"`
}

func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewValidationErrorResponse builds the 400 envelope with per-field
// details under error.details.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// NewQuotaExceededResponse builds the 403 envelope with the vendor's
// quota state under error.details.
func NewQuotaExceededResponse(message, requestID string, detail QuotaDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeQuotaExceeded,
			Message:   message,
			RequestID: requestID,
			Details:   detail,
		},
	}
}

// ListRequest is bound from the query string of list endpoints.
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// DefaultListRequest is the paging applied when a client sends none.
func DefaultListRequest() ListRequest {
	return ListRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// IDRequest binds a UUID path parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// SlugRequest binds a slug path parameter. The cap matches the column
// width, a 200 character base plus the numeric uniqueness suffix.
type SlugRequest struct {
	Slug string `uri:"slug" binding:"required,max=220"`
}

// TimestampResponse is embedded by resource DTOs that expose both
// timestamps.
type TimestampResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
