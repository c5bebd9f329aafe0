package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// ElementDetailService assembles the expanded element view: category,
// owner group, definitions, mappings with their database configs, and
// quality rules. Nested slices are never nil.
type ElementDetailService interface {
	ListDetailed(ctx context.Context) ([]*models.ElementDetail, error)
	GetDetailed(ctx context.Context, id int64) (*models.ElementDetail, error)
}

type elementDetailService struct {
	repos  repositories.Catalog
	logger *zap.Logger
}

func NewElementDetailService(repos repositories.Catalog, logger *zap.Logger) ElementDetailService {
	return &elementDetailService{
		repos:  repos,
		logger: logger.Named("element-detail-service"),
	}
}

var _ ElementDetailService = (*elementDetailService)(nil)

// detailLookups caches referenced records for the duration of one request.
type detailLookups struct {
	categories map[int64]*models.Category
	owners     map[int64]*models.OwnerGroup
	configs    map[int64]*models.DatabaseConfig
}

func (s *elementDetailService) ListDetailed(ctx context.Context) ([]*models.ElementDetail, error) {
	elements, err := s.repos.Elements.List(ctx)
	if err != nil {
		return nil, err
	}
	lk, err := s.loadLookups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ElementDetail, 0, len(elements))
	for _, e := range elements {
		d, err := s.detail(ctx, e, lk)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *elementDetailService) GetDetailed(ctx context.Context, id int64) (*models.ElementDetail, error) {
	e, err := s.repos.Elements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lk, err := s.loadLookups(ctx)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, e, lk)
}

func (s *elementDetailService) loadLookups(ctx context.Context) (*detailLookups, error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	owners, err := s.repos.OwnerGroups.List(ctx)
	if err != nil {
		return nil, err
	}
	configs, err := s.repos.DatabaseConfigs.List(ctx)
	if err != nil {
		return nil, err
	}

	lk := &detailLookups{
		categories: make(map[int64]*models.Category, len(categories)),
		owners:     make(map[int64]*models.OwnerGroup, len(owners)),
		configs:    make(map[int64]*models.DatabaseConfig, len(configs)),
	}
	for _, c := range categories {
		lk.categories[c.ID] = c
	}
	for _, g := range owners {
		lk.owners[g.ID] = g
	}
	for _, d := range configs {
		lk.configs[d.ID] = d
	}
	return lk, nil
}

func (s *elementDetailService) detail(ctx context.Context, e *models.Element, lk *detailLookups) (*models.ElementDetail, error) {
	definitions, err := s.repos.Definitions.ListByElement(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	mappings, err := s.repos.Mappings.ListByElement(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repos.Rules.ListByElement(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	d := &models.ElementDetail{
		Element:      *e,
		Category:     lk.categories[e.CategoryID],
		OwnerGroup:   lk.owners[e.OwnerGroupID],
		Definitions:  nonNil(definitions),
		Mappings:     make([]*models.MappingDetail, 0, len(mappings)),
		QualityRules: nonNil(rules),
	}
	for _, m := range mappings {
		d.Mappings = append(d.Mappings, &models.MappingDetail{
			DatabaseMapping: *m,
			DatabaseConfig:  lk.configs[m.DatabaseConfigID],
		})
	}
	return d, nil
}

func nonNil[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
