package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
		wantLogged bool
	}{
		{"validation", apperrors.Required("name"), http.StatusBadRequest, "validation_error", "name: is required", false},
		{"reference", fmt.Errorf("create element: %w", &apperrors.ReferenceError{Field: "categoryId", Kind: "category", ID: 5}),
			http.StatusBadRequest, "invalid_reference", "categoryId: category 5 does not exist", false},
		{"not found", apperrors.NotFound("rule", 3), http.StatusNotFound, "not_found", "rule 3: not found", false},
		{"conflict", apperrors.Conflict("owner group %d is referenced by %d element(s)", 2, 1),
			http.StatusConflict, "conflict", "owner group 2 is referenced by 1 element(s)", false},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal_error", "Internal server error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			w := httptest.NewRecorder()

			writeServiceError(w, tt.err, zap.New(core))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Equal(t, tt.wantLogged, logs.Len() == 1)
		})
	}
}
