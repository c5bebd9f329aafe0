package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/services"
)

// RegisterCatalogRoutes registers every /api route backed by svc.
func RegisterCatalogRoutes(mux *http.ServeMux, svc services.Catalog, logger *zap.Logger) {
	NewResourceHandler[models.Category, models.CategoryPatch]("category", svc.Categories, logger).RegisterRoutes(mux)
	NewResourceHandler[models.OwnerGroup, models.OwnerGroupPatch]("owner group", svc.OwnerGroups, logger).RegisterRoutes(mux)
	NewResourceHandler[models.DatabaseConfig, models.DatabaseConfigPatch]("database config", svc.DatabaseConfigs, logger).RegisterRoutes(mux)
	NewResourceHandler[models.Element, models.ElementPatch]("element", svc.Elements, logger).
		WithExpand(elementExpander{svc.ElementDetails}).
		RegisterRoutes(mux)

	NewRuleHandler(svc.Rules, logger).RegisterRoutes(mux)
	NewElementHandler(svc.Rules, svc.Definitions, svc.Mappings, logger).RegisterRoutes(mux)
	NewMappingHandler(svc.Mappings, logger).RegisterRoutes(mux)
	NewDatabaseConfigHandler(svc.DatabaseConfigs, logger).RegisterRoutes(mux)
	NewSeedHandler(svc.Seed, logger).RegisterRoutes(mux)
}

// elementExpander adapts ElementDetailService to Expander.
type elementExpander struct {
	details services.ElementDetailService
}

func (e elementExpander) ListExpanded(ctx context.Context) (any, error) {
	return e.details.ListDetailed(ctx)
}

func (e elementExpander) GetExpanded(ctx context.Context, id int64) (any, error) {
	return e.details.GetDetailed(ctx, id)
}
