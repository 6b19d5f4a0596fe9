package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "tracebloom.backend/internal/domain/errors"
	"tracebloom.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. AppErrors are rendered as-is, known domain
// sentinels get their matching status and anything else becomes a logged 500.
func Error(c *gin.Context, err error) {
	appErr := ToAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
		"error":   message,
	})
}

// ToAppError maps an error returned by a usecase onto its HTTP shape
func ToAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound), errors.Is(err, domainerrors.ErrNonceMissing):
		return domainerrors.NewAppError(http.StatusNotFound, domainerrors.CodeNotFound, err.Error(), err)
	case errors.Is(err, domainerrors.ErrUnsupportedMedia):
		return domainerrors.NewAppError(http.StatusUnsupportedMediaType, domainerrors.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, domainerrors.ErrInvalidInput), errors.Is(err, domainerrors.ErrBadRequest):
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, domainerrors.ErrUnauthorized),
		errors.Is(err, domainerrors.ErrSignatureMismatch),
		errors.Is(err, domainerrors.ErrTokenExpired):
		return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeUnauthorized, err.Error(), err)
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.NewAppError(http.StatusForbidden, domainerrors.CodeForbidden, err.Error(), err)
	case errors.Is(err, domainerrors.ErrAlreadyActed),
		errors.Is(err, domainerrors.ErrAlreadyAccepted),
		errors.Is(err, domainerrors.ErrInvalidTransition),
		errors.Is(err, domainerrors.ErrWalletTaken),
		errors.Is(err, domainerrors.ErrAlreadyExists),
		errors.Is(err, domainerrors.ErrConflict):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, err.Error(), err)
	}

	return domainerrors.InternalError(err)
}
