package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// AdapterListResponse for GET /api/adapters
type AdapterListResponse struct {
	Adapters []datasource.AdapterInfo `json:"adapters"`
}

// DatabaseConfigHandler serves connection tests. CRUD on database configs
// is served by a ResourceHandler.
type DatabaseConfigHandler struct {
	configService services.DatabaseConfigService
	logger        *zap.Logger
}

func NewDatabaseConfigHandler(configService services.DatabaseConfigService, logger *zap.Logger) *DatabaseConfigHandler {
	return &DatabaseConfigHandler{configService: configService, logger: logger}
}

// RegisterRoutes registers the database config handler's routes on the given mux.
func (h *DatabaseConfigHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+resourcePath("database config")+"/{id}/test", h.TestConnection)
	mux.HandleFunc("GET "+resourcePath("adapter"), h.ListAdapters)
}

// TestConnection handles POST /api/database-configs/{id}/test.
// A failed connection is still a 200 with success=false.
func (h *DatabaseConfigHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "database config", h.logger)
	if !ok {
		return
	}

	result, err := h.configService.TestConnection(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListAdapters handles GET /api/adapters
func (h *DatabaseConfigHandler) ListAdapters(w http.ResponseWriter, r *http.Request) {
	resp := AdapterListResponse{Adapters: datasource.RegisteredAdapters()}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
