package handlers

import (
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// SeedHandler loads sample data into the catalog.
type SeedHandler struct {
	seedService services.SeedService
	logger      *zap.Logger
}

func NewSeedHandler(seedService services.SeedService, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{seedService: seedService, logger: logger}
}

// RegisterRoutes registers the seed handler's routes on the given mux.
func (h *SeedHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/seed", h.Seed)
}

// Seed handles POST /api/seed. A YAML request body is used as the fixture;
// otherwise the configured fixture is loaded.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	var (
		result *services.SeedResult
		err    error
	)
	if isYAML(r.Header.Get("Content-Type")) && r.ContentLength != 0 {
		result, err = h.seedService.SeedFrom(r.Context(), http.MaxBytesReader(w, r.Body, maxBodyBytes))
	} else {
		result, err = h.seedService.Seed(r.Context())
	}
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}
