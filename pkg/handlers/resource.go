package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// CRUDService is the service surface shared by every top-level catalog
// resource. M is the model, P its patch type.
type CRUDService[M, P any] interface {
	List(ctx context.Context) ([]*M, error)
	Create(ctx context.Context, m *M) (*M, error)
	Get(ctx context.Context, id int64) (*M, error)
	Update(ctx context.Context, id int64, patch P) (*M, error)
	Delete(ctx context.Context, id int64) error
}

// Expander serves the ?expand=true form of a resource's list and get.
type Expander interface {
	ListExpanded(ctx context.Context) (any, error)
	GetExpanded(ctx context.Context, id int64) (any, error)
}

// ResourceHandler serves list/create/get/patch/delete for one resource kind
// under /api/<plural>.
type ResourceHandler[M, P any] struct {
	kind    string
	service CRUDService[M, P]
	expand  Expander
	logger  *zap.Logger
}

// NewResourceHandler creates a handler for kind, e.g. "owner group".
func NewResourceHandler[M, P any](kind string, service CRUDService[M, P], logger *zap.Logger) *ResourceHandler[M, P] {
	return &ResourceHandler[M, P]{
		kind:    kind,
		service: service,
		logger:  logger,
	}
}

// WithExpand enables ?expand=true on list and get.
func (h *ResourceHandler[M, P]) WithExpand(e Expander) *ResourceHandler[M, P] {
	h.expand = e
	return h
}

// resourcePath derives the collection path for a kind:
// "owner group" -> "/api/owner-groups".
func resourcePath(kind string) string {
	return "/api/" + inflection.Plural(strings.ReplaceAll(kind, " ", "-"))
}

// Path returns the collection path, e.g. /api/categories.
func (h *ResourceHandler[M, P]) Path() string {
	return resourcePath(h.kind)
}

// RegisterRoutes registers the resource's routes on the given mux.
func (h *ResourceHandler[M, P]) RegisterRoutes(mux *http.ServeMux) {
	base := h.Path()

	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("PATCH "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

// List handles GET /api/<plural>
func (h *ResourceHandler[M, P]) List(w http.ResponseWriter, r *http.Request) {
	expand, ok := h.parseExpand(w, r)
	if !ok {
		return
	}
	if expand {
		items, err := h.expand.ListExpanded(r.Context())
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		h.write(w, http.StatusOK, items)
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, http.StatusOK, items)
}

// Create handles POST /api/<plural>
func (h *ResourceHandler[M, P]) Create(w http.ResponseWriter, r *http.Request) {
	m := new(M)
	if !decodeJSON(w, r, m, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), m)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, http.StatusOK, created)
}

// Get handles GET /api/<plural>/{id}
func (h *ResourceHandler[M, P]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.kind, h.logger)
	if !ok {
		return
	}

	expand, ok := h.parseExpand(w, r)
	if !ok {
		return
	}
	if expand {
		d, err := h.expand.GetExpanded(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, h.logger)
			return
		}
		h.write(w, http.StatusOK, d)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, http.StatusOK, m)
}

// Update handles PATCH /api/<plural>/{id}
func (h *ResourceHandler[M, P]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.kind, h.logger)
	if !ok {
		return
	}

	var patch P
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	h.write(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/<plural>/{id}
func (h *ResourceHandler[M, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, "id", h.kind, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	NoContent(w)
}

// parseExpand reads the optional expand query parameter. It is ignored on
// resources without an Expander.
func (h *ResourceHandler[M, P]) parseExpand(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("expand")
	if raw == "" || h.expand == nil {
		return false, true
	}
	expand, err := strconv.ParseBool(raw)
	if err != nil {
		writeServiceError(w, apperrors.Invalid("expand", "must be true or false"), h.logger)
		return false, false
	}
	return expand, true
}

func (h *ResourceHandler[M, P]) write(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, data); err != nil {
		h.logger.Error("Failed to write response", zap.String("kind", h.kind), zap.Error(err))
	}
}
