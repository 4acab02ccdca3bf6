package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"persona-server/internal/config"
	"persona-server/internal/infrastructure/logger"
	"persona-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code      string `json:"code,omitempty"` // UUID from PlatformError
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// detailsFor exposes the underlying cause outside production only.
func detailsFor(err error) string {
	cfg := config.GetGlobal()
	if cfg != nil && cfg.IsProduction() {
		return ""
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errorMessage := domainErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		platformerrors.LogError(logger.GetLogger(), domainErr)

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:      domainErr.GetUUID(),
			Error:     errorMessage,
			Details:   detailsFor(domainErr.Unwrap()),
			RequestID: domainErr.GetRequestID(),
		})
		return
	}
	// Non-platform errors
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Details: detailsFor(err),
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:      err.GetUUID(),
		Error:     message,
		RequestID: err.GetRequestID(),
	})
}
