package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ParseID extracts the numeric id path parameter named param. kind names the
// record for the error code ("owner group" -> "invalid_owner_group_id").
// Returns the id and true on success, or 0 and false after writing a 400.
func ParseID(w http.ResponseWriter, r *http.Request, param, kind string, logger *zap.Logger) (int64, bool) {
	raw := r.PathValue(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		code := "invalid_" + strings.ReplaceAll(kind, " ", "_") + "_id"
		msg := fmt.Sprintf("Invalid %s ID %q: must be a positive integer", kind, raw)
		if err := ErrorResponse(w, http.StatusBadRequest, code, msg); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// decodeJSON reads a JSON object from the request body into dst. Unknown
// fields such as "id" or timestamps are ignored. A type mismatch on a known
// field is reported as a ValidationError on that field; any other decode
// failure writes 400 invalid_request, as does anything but whitespace after
// the object. Returns false after writing a response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		if _, err := dec.Token(); errors.Is(err, io.EOF) {
			return true
		}
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Request body must hold a single JSON object"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		writeServiceError(w, apperrors.Invalid(typeErr.Field, "must be a JSON %s", jsonKind(typeErr.Type.Kind().String())), logger)
		return false
	}

	msg := "Invalid request body"
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		msg = "Request body is empty"
	case errors.As(err, &maxErr):
		msg = fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit)
	}
	if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", msg); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
	return false
}

// jsonKind names a Go kind the way a JSON client would.
func jsonKind(kind string) string {
	switch kind {
	case "map", "struct":
		return "object"
	case "slice", "array":
		return "array"
	case "bool":
		return "boolean"
	case "string":
		return "string"
	case "ptr", "interface":
		return "value"
	default:
		return "number"
	}
}
