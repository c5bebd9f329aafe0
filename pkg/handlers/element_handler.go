package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// CreateDefinitionRequest for POST /api/elements/{id}/definitions
type CreateDefinitionRequest struct {
	Definition string `json:"definition"`
	CreatedBy  string `json:"createdBy"`
}

// CreateMappingRequest for POST /api/elements/{id}/mappings
type CreateMappingRequest struct {
	DatabaseConfigID    int64          `json:"databaseConfigId"`
	SchemaName          string         `json:"schemaName"`
	TableName           string         `json:"tableName"`
	ColumnName          string         `json:"columnName"`
	MappingType         string         `json:"mappingType"`
	TransformationLogic map[string]any `json:"transformationLogic"`
}

// ElementHandler serves the collections nested under one element: rules,
// definitions and mappings. The element itself is served by a
// ResourceHandler. Every route answers 404 when the element does not exist.
type ElementHandler struct {
	ruleService       services.RuleService
	definitionService services.DefinitionService
	mappingService    services.MappingService
	logger            *zap.Logger
}

// NewElementHandler creates a new element handler.
func NewElementHandler(
	ruleService services.RuleService,
	definitionService services.DefinitionService,
	mappingService services.MappingService,
	logger *zap.Logger,
) *ElementHandler {
	return &ElementHandler{
		ruleService:       ruleService,
		definitionService: definitionService,
		mappingService:    mappingService,
		logger:            logger,
	}
}

// RegisterRoutes registers the nested element routes on the given mux.
func (h *ElementHandler) RegisterRoutes(mux *http.ServeMux) {
	base := resourcePath("element") + "/{id}"

	mux.HandleFunc("GET "+base+"/rules", h.ListRules)
	mux.HandleFunc("POST "+base+"/rules", h.CreateRule)
	mux.HandleFunc("GET "+base+"/definitions", h.ListDefinitions)
	mux.HandleFunc("POST "+base+"/definitions", h.CreateDefinition)
	mux.HandleFunc("GET "+base+"/mappings", h.ListMappings)
	mux.HandleFunc("POST "+base+"/mappings", h.CreateMapping)
}

// ListRules handles GET /api/elements/{id}/rules
func (h *ElementHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	rules, err := h.ruleService.ListForElement(r.Context(), elementID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, rules)
}

// CreateRule handles POST /api/elements/{id}/rules
func (h *ElementHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	var req models.RuleInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	rule, err := h.ruleService.CreateForElement(r.Context(), elementID, req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, rule)
}

// ListDefinitions handles GET /api/elements/{id}/definitions
func (h *ElementHandler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	defs, err := h.definitionService.ListForElement(r.Context(), elementID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, defs)
}

// CreateDefinition handles POST /api/elements/{id}/definitions.
// The version is assigned by storage.
func (h *ElementHandler) CreateDefinition(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	var req CreateDefinitionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	def, err := h.definitionService.CreateForElement(r.Context(), elementID, &models.ElementDefinition{
		Definition: req.Definition,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, def)
}

// ListMappings handles GET /api/elements/{id}/mappings
func (h *ElementHandler) ListMappings(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	mappings, err := h.mappingService.ListForElement(r.Context(), elementID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, mappings)
}

// CreateMapping handles POST /api/elements/{id}/mappings
func (h *ElementHandler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	elementID, ok := ParseID(w, r, "id", "element", h.logger)
	if !ok {
		return
	}

	var req CreateMappingRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	mapping, err := h.mappingService.CreateForElement(r.Context(), elementID, &models.DatabaseMapping{
		DatabaseConfigID:    req.DatabaseConfigID,
		SchemaName:          req.SchemaName,
		TableName:           req.TableName,
		ColumnName:          req.ColumnName,
		MappingType:         req.MappingType,
		TransformationLogic: req.TransformationLogic,
	})
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, mapping)
}

func (h *ElementHandler) write(w http.ResponseWriter, data any) {
	if err := WriteJSON(w, http.StatusOK, data); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
