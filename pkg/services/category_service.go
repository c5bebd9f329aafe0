package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// CategoryService provides operations for managing categories.
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error)
	// Delete fails with a ConflictError while elements use the category.
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	repo        repositories.CategoryRepository
	uniqueNames bool
	logger      *zap.Logger
}

// NewCategoryService creates a new CategoryService. When uniqueNames is
// set, names must be unique case-insensitively.
func NewCategoryService(repo repositories.CategoryRepository, uniqueNames bool, logger *zap.Logger) CategoryService {
	return &categoryService{
		repo:        repo,
		uniqueNames: uniqueNames,
		logger:      logger.Named("category-service"),
	}
}

var _ CategoryService = (*categoryService)(nil)

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if s.uniqueNames {
		if err := checkNameFree(ctx, s.lookup, "category", c.Name, 0); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("Created category",
		zap.Int64("category_id", c.ID),
		zap.String("name", c.Name))
	return c, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Update(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	if s.uniqueNames && patch.Name != nil {
		// A missing record is reported as such, not as a name conflict.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := checkNameFree(ctx, s.lookup, "category", *patch.Name, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, func(c *models.Category) error {
		patch.Apply(c)
		return c.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated category", zap.Int64("category_id", id))
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted category", zap.Int64("category_id", id))
	return nil
}

func (s *categoryService) lookup(ctx context.Context, name string) (int64, bool, error) {
	c, err := s.repo.FindByName(ctx, name)
	if err != nil || c == nil {
		return 0, false, err
	}
	return c.ID, true, nil
}
