package middleware

import (
	"errors"
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(string(domain.KeyRequestID))

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "error", err, "cause", appErr.Err, "path", c.FullPath(), "request_id", requestID)
				if appErr.Code == http.StatusInternalServerError {
					response.Error(c, appErr.Code, "An unexpected error occurred. Please try again later.", nil)
					return
				}
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("Internal server error", "error", err, "path", c.FullPath(), "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
