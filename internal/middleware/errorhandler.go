package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quantlog/quantlog/internal/domain/dto"
	"github.com/quantlog/quantlog/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context (via c.Error)
// into a single standardized 500 response, unless a handler already wrote
// a status of its own.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError writes a standardized error body with the given status and
// stops the handler chain. For handlers that want the ErrorHandler response
// shape with a non-500 status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
