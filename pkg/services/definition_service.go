package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// DefinitionService manages the versioned business definitions of an
// element. Definitions are append-only.
type DefinitionService interface {
	ListForElement(ctx context.Context, elementID int64) ([]*models.ElementDefinition, error)
	// CreateForElement stores d as the element's next version.
	CreateForElement(ctx context.Context, elementID int64, d *models.ElementDefinition) (*models.ElementDefinition, error)
}

type definitionService struct {
	definitions repositories.DefinitionRepository
	elements    repositories.ElementRepository
	logger      *zap.Logger
}

func NewDefinitionService(definitions repositories.DefinitionRepository, elements repositories.ElementRepository, logger *zap.Logger) DefinitionService {
	return &definitionService{
		definitions: definitions,
		elements:    elements,
		logger:      logger.Named("definition-service"),
	}
}

var _ DefinitionService = (*definitionService)(nil)

func (s *definitionService) ListForElement(ctx context.Context, elementID int64) ([]*models.ElementDefinition, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}
	return s.definitions.ListByElement(ctx, elementID)
}

func (s *definitionService) CreateForElement(ctx context.Context, elementID int64, d *models.ElementDefinition) (*models.ElementDefinition, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}

	d.ElementID = elementID
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := s.definitions.Create(ctx, d); err != nil {
		return nil, elementGone(err, elementID)
	}

	s.logger.Info("Created element definition",
		zap.Int64("element_id", elementID),
		zap.Int("version", d.Version),
		zap.String("created_by", d.CreatedBy))
	return d, nil
}
