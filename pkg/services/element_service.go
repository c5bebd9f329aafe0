package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// ElementService provides operations for managing elements. Category and
// owner group references are checked by storage and surface as
// ReferenceErrors.
type ElementService interface {
	List(ctx context.Context) ([]*models.Element, error)
	Create(ctx context.Context, e *models.Element) (*models.Element, error)
	Get(ctx context.Context, id int64) (*models.Element, error)
	Update(ctx context.Context, id int64, patch models.ElementPatch) (*models.Element, error)
	// Delete also removes the element's rules, definitions and mappings.
	Delete(ctx context.Context, id int64) error
}

type elementService struct {
	repo        repositories.ElementRepository
	uniqueNames bool
	logger      *zap.Logger
}

func NewElementService(repo repositories.ElementRepository, uniqueNames bool, logger *zap.Logger) ElementService {
	return &elementService{
		repo:        repo,
		uniqueNames: uniqueNames,
		logger:      logger.Named("element-service"),
	}
}

var _ ElementService = (*elementService)(nil)

func (s *elementService) List(ctx context.Context) ([]*models.Element, error) {
	return s.repo.List(ctx)
}

func (s *elementService) Create(ctx context.Context, e *models.Element) (*models.Element, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if s.uniqueNames {
		if err := checkNameFree(ctx, s.lookup, "element", e.Name, 0); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Created element",
		zap.Int64("element_id", e.ID),
		zap.String("name", e.Name),
		zap.Int64("category_id", e.CategoryID),
		zap.Int64("owner_group_id", e.OwnerGroupID))
	return e, nil
}

func (s *elementService) Get(ctx context.Context, id int64) (*models.Element, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *elementService) Update(ctx context.Context, id int64, patch models.ElementPatch) (*models.Element, error) {
	if s.uniqueNames && patch.Name != nil {
		// A missing record is reported as such, not as a name conflict.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := checkNameFree(ctx, s.lookup, "element", *patch.Name, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, func(e *models.Element) error {
		patch.Apply(e)
		return e.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated element", zap.Int64("element_id", id))
	return updated, nil
}

func (s *elementService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted element", zap.Int64("element_id", id))
	return nil
}

func (s *elementService) lookup(ctx context.Context, name string) (int64, bool, error) {
	e, err := s.repo.FindByName(ctx, name)
	if err != nil || e == nil {
		return 0, false, err
	}
	return e.ID, true, nil
}
