package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/database"
	"github.com/ekaya-inc/element-catalog/pkg/models"
)

type elementRepository struct {
	db *database.DB
}

var _ ElementRepository = (*elementRepository)(nil)

const selectElement = `
	SELECT id, name, description, category_id, owner_group_id, created_at, updated_at
	FROM business_elements`

func (r *elementRepository) List(ctx context.Context) ([]*models.Element, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectElement+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements: %w", err)
	}
	return collect(rows, scanElement)
}

func (r *elementRepository) Create(ctx context.Context, e *models.Element) error {
	query := `
		INSERT INTO business_elements (name, description, category_id, owner_group_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query, e.Name, e.Description, e.CategoryID, e.OwnerGroupID).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if refErr := referenceError(err, elementRefs(e)); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to create element: %w", err)
	}
	return nil
}

func (r *elementRepository) GetByID(ctx context.Context, id int64) (*models.Element, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectElement+` WHERE id = $1`, id)
	return getOne(row, scanElement, "element", id)
}

func (r *elementRepository) FindByName(ctx context.Context, name string) (*models.Element, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectElement+` WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`, name)
	return findOne(row, scanElement)
}

func (r *elementRepository) Update(ctx context.Context, id int64, mutate func(*models.Element) error) (*models.Element, error) {
	return lockedUpdate(ctx, r.db, "element", id, selectElement, scanElement, mutate,
		func(ctx context.Context, tx pgx.Tx, prev, next *models.Element) error {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
			err := tx.QueryRow(ctx, `
				UPDATE business_elements
				SET name = $2, description = $3, category_id = $4, owner_group_id = $5, updated_at = now()
				WHERE id = $1
				RETURNING updated_at`,
				id, next.Name, next.Description, next.CategoryID, next.OwnerGroupID,
			).Scan(&next.UpdatedAt)
			if err != nil {
				if refErr := referenceError(err, elementRefs(next)); refErr != nil {
					return refErr
				}
				return fmt.Errorf("failed to update element: %w", err)
			}
			return nil
		})
}

// Delete relies on ON DELETE CASCADE for rules, definitions and mappings.
func (r *elementRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "business_elements", "element", id)
}

func elementRefs(e *models.Element) map[string]int64 {
	return map[string]int64{"categoryId": e.CategoryID, "ownerGroupId": e.OwnerGroupID}
}

func scanElement(row pgx.Row) (*models.Element, error) {
	var e models.Element
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CategoryID, &e.OwnerGroupID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan element: %w", err)
	}
	return &e, nil
}

// ============================================================================
// Rules
// ============================================================================

type ruleRepository struct {
	db *database.DB
}

var _ RuleRepository = (*ruleRepository)(nil)

const selectRule = `
	SELECT id, element_id, name, description, rule_type, rule_config,
	       severity, enabled, created_at, updated_at
	FROM data_quality_rules`

func (r *ruleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectRule+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	return collect(rows, scanRule)
}

func (r *ruleRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.Rule, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectRule+` WHERE element_id = $1 ORDER BY id`, elementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	return collect(rows, scanRule)
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.Rule) error {
	config, err := ruleConfigValue(rule.RuleConfig)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO data_quality_rules (
			element_id, name, description, rule_type, rule_config, severity, enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err = r.db.Conn(ctx).QueryRow(ctx, query,
		rule.ElementID,
		rule.Name,
		rule.Description,
		rule.RuleType,
		config,
		rule.Severity,
		rule.Enabled,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if refErr := referenceError(err, map[string]int64{"elementId": rule.ElementID}); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id int64) (*models.Rule, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectRule+` WHERE id = $1`, id)
	return getOne(row, scanRule, "rule", id)
}

func (r *ruleRepository) Update(ctx context.Context, id int64, mutate func(*models.Rule) error) (*models.Rule, error) {
	return lockedUpdate(ctx, r.db, "rule", id, selectRule, scanRule, mutate,
		func(ctx context.Context, tx pgx.Tx, prev, next *models.Rule) error {
			next.ID, next.ElementID, next.CreatedAt = prev.ID, prev.ElementID, prev.CreatedAt
			config, err := ruleConfigValue(next.RuleConfig)
			if err != nil {
				return err
			}
			err = tx.QueryRow(ctx, `
				UPDATE data_quality_rules
				SET name = $2, description = $3, rule_type = $4, rule_config = $5,
				    severity = $6, enabled = $7, updated_at = now()
				WHERE id = $1
				RETURNING updated_at`,
				id, next.Name, next.Description, next.RuleType, config, next.Severity, next.Enabled,
			).Scan(&next.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update rule: %w", err)
			}
			return nil
		})
}

func (r *ruleRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "data_quality_rules", "rule", id)
}

// ruleConfigValue encodes rule_config, which is NOT NULL in the schema.
func ruleConfigValue(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	data, err := jsonbValue(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule config: %w", err)
	}
	return data, nil
}

func scanRule(row pgx.Row) (*models.Rule, error) {
	var rule models.Rule
	var config []byte

	err := row.Scan(
		&rule.ID,
		&rule.ElementID,
		&rule.Name,
		&rule.Description,
		&rule.RuleType,
		&config,
		&rule.Severity,
		&rule.Enabled,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	rule.RuleConfig, err = jsonbObject(config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule_config: %w", err)
	}
	if rule.RuleConfig == nil {
		rule.RuleConfig = map[string]any{}
	}
	return &rule, nil
}

// ============================================================================
// Definitions
// ============================================================================

type definitionRepository struct {
	db *database.DB
}

var _ DefinitionRepository = (*definitionRepository)(nil)

func (r *definitionRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.ElementDefinition, error) {
	query := `
		SELECT id, element_id, version, definition, created_by, created_at
		FROM element_definitions
		WHERE element_id = $1
		ORDER BY id`

	rows, err := r.db.Conn(ctx).Query(ctx, query, elementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query element definitions: %w", err)
	}
	return collect(rows, scanDefinition)
}

// Create locks the owning element row so concurrent writers for the same
// element are serialized and versions stay gap-free.
func (r *definitionRepository) Create(ctx context.Context, d *models.ElementDefinition) error {
	tx, err := r.db.Conn(ctx).Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM business_elements WHERE id = $1 FOR UPDATE`, d.ElementID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return &apperrors.ReferenceError{Field: "elementId", Kind: "element", ID: d.ElementID}
	}
	if err != nil {
		return fmt.Errorf("failed to lock element: %w", err)
	}

	query := `
		INSERT INTO element_definitions (element_id, version, definition, created_by)
		SELECT $1, COALESCE(MAX(version), 0) + 1, $2, $3
		FROM element_definitions
		WHERE element_id = $1
		RETURNING id, version, created_at`

	err = tx.QueryRow(ctx, query, d.ElementID, d.Definition, d.CreatedBy).
		Scan(&d.ID, &d.Version, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create element definition: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit element definition: %w", err)
	}
	return nil
}

func scanDefinition(row pgx.Row) (*models.ElementDefinition, error) {
	var d models.ElementDefinition
	if err := row.Scan(&d.ID, &d.ElementID, &d.Version, &d.Definition, &d.CreatedBy, &d.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan element definition: %w", err)
	}
	return &d, nil
}

// ============================================================================
// Mappings
// ============================================================================

type mappingRepository struct {
	db *database.DB
}

var _ MappingRepository = (*mappingRepository)(nil)

const selectMapping = `
	SELECT id, element_id, database_config_id, schema_name, table_name, column_name,
	       mapping_type, transformation_logic, created_at, updated_at
	FROM database_mappings`

func (r *mappingRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.DatabaseMapping, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectMapping+` WHERE element_id = $1 ORDER BY id`, elementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query database mappings: %w", err)
	}
	return collect(rows, scanMapping)
}

func (r *mappingRepository) Create(ctx context.Context, m *models.DatabaseMapping) error {
	logic, err := jsonbValue(m.TransformationLogic)
	if err != nil {
		return fmt.Errorf("failed to encode transformation logic: %w", err)
	}

	query := `
		INSERT INTO database_mappings (
			element_id, database_config_id, schema_name, table_name, column_name,
			mapping_type, transformation_logic
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err = r.db.Conn(ctx).QueryRow(ctx, query,
		m.ElementID,
		m.DatabaseConfigID,
		m.SchemaName,
		m.TableName,
		m.ColumnName,
		m.MappingType,
		logic,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		refs := map[string]int64{"elementId": m.ElementID, "databaseConfigId": m.DatabaseConfigID}
		if refErr := referenceError(err, refs); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to create database mapping: %w", err)
	}
	return nil
}

func (r *mappingRepository) GetByID(ctx context.Context, id int64) (*models.DatabaseMapping, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectMapping+` WHERE id = $1`, id)
	return getOne(row, scanMapping, "database mapping", id)
}

func (r *mappingRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "database_mappings", "database mapping", id)
}

func scanMapping(row pgx.Row) (*models.DatabaseMapping, error) {
	var m models.DatabaseMapping
	var logic []byte

	err := row.Scan(
		&m.ID,
		&m.ElementID,
		&m.DatabaseConfigID,
		&m.SchemaName,
		&m.TableName,
		&m.ColumnName,
		&m.MappingType,
		&logic,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan database mapping: %w", err)
	}

	m.TransformationLogic, err = jsonbObject(logic)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal transformation_logic: %w", err)
	}
	return &m, nil
}
