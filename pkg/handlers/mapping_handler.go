package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// MappingHandler serves database mappings addressed by their own id.
type MappingHandler struct {
	mappingService services.MappingService
	logger         *zap.Logger
}

func NewMappingHandler(mappingService services.MappingService, logger *zap.Logger) *MappingHandler {
	return &MappingHandler{mappingService: mappingService, logger: logger}
}

// RegisterRoutes registers the mapping handler's routes on the given mux.
func (h *MappingHandler) RegisterRoutes(mux *http.ServeMux) {
	base := resourcePath("mapping")

	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// Get handles GET /api/mappings/{id}
func (h *MappingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "mapping", h.logger)
	if !ok {
		return
	}

	mapping, err := h.mappingService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, mapping); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/mappings/{id}
func (h *MappingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "mapping", h.logger)
	if !ok {
		return
	}

	if err := h.mappingService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	NoContent(w)
}
