package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// RuleHandler serves rules addressed by their own id. Rules can also be
// created and listed under their element (see ElementHandler).
type RuleHandler struct {
	ruleService services.RuleService
	logger      *zap.Logger
}

// NewRuleHandler creates a new rule handler.
func NewRuleHandler(ruleService services.RuleService, logger *zap.Logger) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

// RegisterRoutes registers the rule handler's routes on the given mux.
func (h *RuleHandler) RegisterRoutes(mux *http.ServeMux) {
	base := resourcePath("rule")

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List handles GET /api/rules
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rules); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/rules. The body names the owning element.
func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RuleInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	rule, err := h.ruleService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rule); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/rules/{id}
func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "rule", h.logger)
	if !ok {
		return
	}

	rule, err := h.ruleService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rule); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/rules/{id}
func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "rule", h.logger)
	if !ok {
		return
	}

	var patch models.RulePatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	rule, err := h.ruleService.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, rule); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/rules/{id}
func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", "rule", h.logger)
	if !ok {
		return
	}

	if err := h.ruleService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	NoContent(w)
}
