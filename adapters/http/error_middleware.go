package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	portfolioUC "github.com/minhle/folioforge/internal/application/usecase/portfolio"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

// ErrorMiddleware renders the last error attached to the context as the
// standard envelope. Validation rejections additionally carry their
// structured field errors.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		var appErr *apperror.AppError
		message := "An unexpected error occurred"
		if errors.As(err, &appErr) {
			message = appErr.Message
			if appErr.Details != "" && status != http.StatusInternalServerError {
				message = appErr.Details
			}
		}

		if status == http.StatusInternalServerError {
			log.Error("request failed", err, zap.String("path", c.Request.URL.Path))
		}

		var details any
		if fieldErrs := portfolioUC.FieldErrors(err); len(fieldErrs) > 0 {
			details = fieldErrs
		}
		c.JSON(status, Fail(message, details))
	}
}
