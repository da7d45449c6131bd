package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "investor-onboarding.backend/internal/domain/errors"
	"investor-onboarding.backend/pkg/logger"
)

// statusByKind is the only place an error kind becomes an HTTP status.
var statusByKind = map[domainerrors.Kind]int{
	domainerrors.KindBadRequest:   http.StatusBadRequest,
	domainerrors.KindUnauthorized: http.StatusUnauthorized,
	domainerrors.KindForbidden:    http.StatusForbidden,
	domainerrors.KindNotFound:     http.StatusNotFound,
	domainerrors.KindConflict:     http.StatusConflict,
	domainerrors.KindInternal:     http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind domainerrors.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message sends a success response carrying only a message
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := domainerrors.AsAppError(err)
	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
