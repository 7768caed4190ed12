// Package response holds the JSON envelopes of the ops and auth endpoints.
// Buyer-facing routes redirect instead of rendering JSON and never use it.
package response

import (
	"errors"
	"net/http"
	"time"

	"passimpay-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: stamp(),
	})
}

// Error maps err onto the error envelope. An *apperror.AppError anywhere in
// the chain supplies the status and code; anything else renders as SYS_000.
func Error(c *gin.Context, err error) {
	resp := ErrorResponse{
		ErrorCode: "SYS_000",
		Message:   "Internal server error",
		RequestID: requestID(c),
		Timestamp: stamp(),
	}
	status := http.StatusInternalServerError

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus
		resp.ErrorCode = appErr.Code
		resp.Message = appErr.Message
	}

	c.JSON(status, resp)
}

func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requestID reads the middleware-set request ID, or generates one.
func requestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
