package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON ErrorResponse.
// Handlers that already wrote a body are left alone.
//
// An attached dto.ErrorResponse is sent as-is with the current status
// (500 when no status was set); any other error becomes a generic 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Err(last).Str("request_id", toString(rid)).Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var resp dto.ErrorResponse
	if !errors.As(last, &resp) {
		resp = dto.NewErrorResponse("Internal server error", last)
	}
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithError stops the chain and writes a standardized error body.
//
// Parameters:
//   - status: HTTP status code to send.
//   - message: client-facing description.
//   - err: optional cause, exposed in the "error" field and attached to c.Errors.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, resp)
}
