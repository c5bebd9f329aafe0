package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// writeServiceError maps a service error to an HTTP response. Unknown
// errors are logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status, code, msg := http.StatusInternalServerError, "internal_error", "Internal server error"

	var (
		validationErr *apperrors.ValidationError
		referenceErr  *apperrors.ReferenceError
		conflictErr   *apperrors.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		status, code, msg = http.StatusBadRequest, "validation_error", validationErr.Error()
	case errors.As(err, &referenceErr):
		status, code, msg = http.StatusBadRequest, "invalid_reference", referenceErr.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.As(err, &conflictErr):
		status, code, msg = http.StatusConflict, "conflict", conflictErr.Error()
	default:
		logger.Error("Request failed", zap.Error(err))
	}

	if err := ErrorResponse(w, status, code, msg); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
