package response

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "rawwealthy.backend/internal/domain/errors"
	"rawwealthy.backend/pkg/logger"
)

var now = time.Now

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps err onto its HTTP representation. Locked accounts get a
// Retry-After header; internal errors are logged but never echoed.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromDomain(err)

	var locked *domainerrors.AccountLockedError
	if errors.As(err, &locked) {
		seconds := int(locked.RetryAfter(now()).Seconds())
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
