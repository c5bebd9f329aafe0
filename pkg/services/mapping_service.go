package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/audit"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
	sqlguard "github.com/ekaya-inc/element-catalog/pkg/sql"
)

// MappingService manages where an element physically lives in the
// configured databases.
type MappingService interface {
	ListForElement(ctx context.Context, elementID int64) ([]*models.DatabaseMapping, error)
	CreateForElement(ctx context.Context, elementID int64, m *models.DatabaseMapping) (*models.DatabaseMapping, error)
	Get(ctx context.Context, id int64) (*models.DatabaseMapping, error)
	Delete(ctx context.Context, id int64) error
}

type mappingService struct {
	mappings repositories.MappingRepository
	elements repositories.ElementRepository
	auditor  *audit.SecurityAuditor
	logger   *zap.Logger
}

func NewMappingService(mappings repositories.MappingRepository, elements repositories.ElementRepository, logger *zap.Logger) MappingService {
	return &mappingService{
		mappings: mappings,
		elements: elements,
		auditor:  audit.NewSecurityAuditor(logger),
		logger:   logger.Named("mapping-service"),
	}
}

var _ MappingService = (*mappingService)(nil)

func (s *mappingService) ListForElement(ctx context.Context, elementID int64) ([]*models.DatabaseMapping, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}
	return s.mappings.ListByElement(ctx, elementID)
}

func (s *mappingService) CreateForElement(ctx context.Context, elementID int64, m *models.DatabaseMapping) (*models.DatabaseMapping, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}

	m.ElementID = elementID
	if err := m.Validate(); err != nil {
		return nil, err
	}

	finding := sqlguard.CheckIdentifiers(
		sqlguard.Identifier{Field: "schemaName", Value: m.SchemaName},
		sqlguard.Identifier{Field: "tableName", Value: m.TableName},
		sqlguard.Identifier{Field: "columnName", Value: m.ColumnName},
	)
	if finding != nil {
		s.auditor.LogInjectionAttempt(ctx, audit.InjectionDetails{
			ElementID:   elementID,
			Field:       finding.Field,
			Value:       finding.Value,
			Fingerprint: finding.Fingerprint,
			Reason:      finding.Reason,
		})
		return nil, apperrors.Invalid(finding.Field, "%s", finding.Reason)
	}

	if err := s.mappings.Create(ctx, m); err != nil {
		return nil, elementGone(err, elementID)
	}

	s.logger.Info("Created database mapping",
		zap.Int64("mapping_id", m.ID),
		zap.Int64("element_id", elementID),
		zap.Int64("database_config_id", m.DatabaseConfigID))
	return m, nil
}

func (s *mappingService) Get(ctx context.Context, id int64) (*models.DatabaseMapping, error) {
	return s.mappings.GetByID(ctx, id)
}

func (s *mappingService) Delete(ctx context.Context, id int64) error {
	if err := s.mappings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted database mapping", zap.Int64("mapping_id", id))
	return nil
}
