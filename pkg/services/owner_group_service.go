package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// OwnerGroupService provides operations for managing owner groups.
type OwnerGroupService interface {
	List(ctx context.Context) ([]*models.OwnerGroup, error)
	Create(ctx context.Context, g *models.OwnerGroup) (*models.OwnerGroup, error)
	Get(ctx context.Context, id int64) (*models.OwnerGroup, error)
	Update(ctx context.Context, id int64, patch models.OwnerGroupPatch) (*models.OwnerGroup, error)
	Delete(ctx context.Context, id int64) error
}

type ownerGroupService struct {
	repo        repositories.OwnerGroupRepository
	uniqueNames bool
	logger      *zap.Logger
}

func NewOwnerGroupService(repo repositories.OwnerGroupRepository, uniqueNames bool, logger *zap.Logger) OwnerGroupService {
	return &ownerGroupService{
		repo:        repo,
		uniqueNames: uniqueNames,
		logger:      logger.Named("owner-group-service"),
	}
}

var _ OwnerGroupService = (*ownerGroupService)(nil)

func (s *ownerGroupService) List(ctx context.Context) ([]*models.OwnerGroup, error) {
	return s.repo.List(ctx)
}

func (s *ownerGroupService) Create(ctx context.Context, g *models.OwnerGroup) (*models.OwnerGroup, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if s.uniqueNames {
		if err := checkNameFree(ctx, s.lookup, "owner group", g.Name, 0); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create owner group: %w", err)
	}

	s.logger.Info("Created owner group",
		zap.Int64("owner_group_id", g.ID),
		zap.String("name", g.Name))
	return g, nil
}

func (s *ownerGroupService) Get(ctx context.Context, id int64) (*models.OwnerGroup, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ownerGroupService) Update(ctx context.Context, id int64, patch models.OwnerGroupPatch) (*models.OwnerGroup, error) {
	if s.uniqueNames && patch.Name != nil {
		// A missing record is reported as such, not as a name conflict.
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := checkNameFree(ctx, s.lookup, "owner group", *patch.Name, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, func(g *models.OwnerGroup) error {
		patch.Apply(g)
		return g.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated owner group", zap.Int64("owner_group_id", id))
	return updated, nil
}

func (s *ownerGroupService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted owner group", zap.Int64("owner_group_id", id))
	return nil
}

func (s *ownerGroupService) lookup(ctx context.Context, name string) (int64, bool, error) {
	g, err := s.repo.FindByName(ctx, name)
	if err != nil || g == nil {
		return 0, false, err
	}
	return g.ID, true, nil
}
