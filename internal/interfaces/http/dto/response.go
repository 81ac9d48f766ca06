// Package dto holds the HTTP request and response shapes.
package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "civic-writer-api/pkg/errors"
)

// Response is the success envelope.
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type ErrorDetail struct {
	ErrorCode   string   `json:"error_code,omitempty"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ErrorResponse is the error envelope. Data is set when the failed action
// still has a state to hand back.
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Data    any          `json:"data,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

func Success[T any](c *gin.Context, data T) {
	c.JSON(200, Response[T]{
		Code:    200,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// AppError writes err using its AppError status and code. data, when not nil,
// is returned alongside the error.
func AppError(c *gin.Context, err error, data any) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = 500
	}
	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: appErr.Message,
		Error: &ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		},
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Error(c, 429, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
