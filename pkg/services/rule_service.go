package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

// RuleService provides operations for managing data-quality rules.
// Rules belong to exactly one element and are otherwise addressed by their
// own id.
type RuleService interface {
	List(ctx context.Context) ([]*models.Rule, error)
	Get(ctx context.Context, id int64) (*models.Rule, error)
	Update(ctx context.Context, id int64, patch models.RulePatch) (*models.Rule, error)
	Delete(ctx context.Context, id int64) error

	// ListForElement fails with NotFound when the element does not exist.
	ListForElement(ctx context.Context, elementID int64) ([]*models.Rule, error)
	// Create takes the owning element from in.ElementID. A missing element
	// is a ReferenceError, as for any other foreign key in a payload.
	Create(ctx context.Context, in models.RuleInput) (*models.Rule, error)
	// CreateForElement fails with NotFound when the element does not exist.
	CreateForElement(ctx context.Context, elementID int64, in models.RuleInput) (*models.Rule, error)
}

type ruleService struct {
	rules    repositories.RuleRepository
	elements repositories.ElementRepository
	logger   *zap.Logger
}

func NewRuleService(rules repositories.RuleRepository, elements repositories.ElementRepository, logger *zap.Logger) RuleService {
	return &ruleService{
		rules:    rules,
		elements: elements,
		logger:   logger.Named("rule-service"),
	}
}

var _ RuleService = (*ruleService)(nil)

func (s *ruleService) List(ctx context.Context) ([]*models.Rule, error) {
	return s.rules.List(ctx)
}

func (s *ruleService) Get(ctx context.Context, id int64) (*models.Rule, error) {
	return s.rules.GetByID(ctx, id)
}

func (s *ruleService) Update(ctx context.Context, id int64, patch models.RulePatch) (*models.Rule, error) {
	updated, err := s.rules.Update(ctx, id, func(r *models.Rule) error {
		patch.Apply(r)
		return r.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated rule",
		zap.Int64("rule_id", id),
		zap.Int64("element_id", updated.ElementID))
	return updated, nil
}

func (s *ruleService) Delete(ctx context.Context, id int64) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted rule", zap.Int64("rule_id", id))
	return nil
}

func (s *ruleService) ListForElement(ctx context.Context, elementID int64) ([]*models.Rule, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}
	return s.rules.ListByElement(ctx, elementID)
}

func (s *ruleService) Create(ctx context.Context, in models.RuleInput) (*models.Rule, error) {
	if in.ElementID <= 0 {
		return nil, apperrors.Invalid("elementId", "must be a positive id")
	}

	rule := in.ToRule(in.ElementID)
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("create rule: %w", err)
	}

	s.logger.Info("Created rule",
		zap.Int64("rule_id", rule.ID),
		zap.Int64("element_id", rule.ElementID),
		zap.String("rule_type", rule.RuleType))
	return rule, nil
}

func (s *ruleService) CreateForElement(ctx context.Context, elementID int64, in models.RuleInput) (*models.Rule, error) {
	if err := requireElement(ctx, s.elements, elementID); err != nil {
		return nil, err
	}

	rule := in.ToRule(elementID)
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, elementGone(err, elementID)
	}

	s.logger.Info("Created rule",
		zap.Int64("rule_id", rule.ID),
		zap.Int64("element_id", elementID),
		zap.String("rule_type", rule.RuleType),
		zap.String("severity", rule.Severity))
	return rule, nil
}

// requireElement fails with NotFound when the element does not exist.
func requireElement(ctx context.Context, elements repositories.ElementRepository, id int64) error {
	_, err := elements.GetByID(ctx, id)
	return err
}

// elementGone reports a ReferenceError on elementId as NotFound. It covers
// the element being deleted between requireElement and the insert.
func elementGone(err error, elementID int64) error {
	var refErr *apperrors.ReferenceError
	if errors.As(err, &refErr) && refErr.Field == "elementId" {
		return apperrors.NotFound("element", elementID)
	}
	return err
}
