package handlers

import (
	"net/http"

	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	switch {
	case services.IsNotFoundError(err):
		status = http.StatusNotFound
	case services.IsValidationError(err):
		status = http.StatusBadRequest
	case services.IsUnprocessableError(err):
		status = http.StatusUnprocessableEntity
	case services.IsInternalError(err):
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
	}

	if status < http.StatusInternalServerError {
		logger.Debug("handled service error",
			zap.Int("status", status),
			zap.String("type", string(services.GetErrorType(err))),
			zap.Error(err))
	}

	if err := utils.WriteError(w, status, ""); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

// HandleValidationError renders request validation failures as 400
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		logger.Debug("request validation failed", zap.Any("fields", utils.GetValidationFields(err)))
	}
	if err := utils.WriteBadRequest(w); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// NotFound renders the JSON envelope for unmatched routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteNotFound(w)
}

// MethodNotAllowed renders the JSON envelope for a known path with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteMethodNotAllowed(w)
}
