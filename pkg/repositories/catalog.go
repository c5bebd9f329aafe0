package repositories

import (
	"context"

	"github.com/ekaya-inc/element-catalog/pkg/models"
)

// Repositories here are the storage layer of the catalog. Two backends
// implement them: the Postgres repositories in this package and the
// in-memory store in package memory.
//
// Contract shared by every implementation:
//   - List returns records in ascending id order (insertion order).
//   - Create assigns a fresh id and timestamps on the passed record.
//   - GetByID, Update and Delete return an error wrapping
//     apperrors.ErrNotFound when the id does not exist.
//   - Update runs mutate on a copy of the stored record while holding a
//     per-record lock, then persists the result. If mutate returns an
//     error nothing is written.
//   - Foreign keys are checked inside storage and reported as
//     *apperrors.ReferenceError; deletes blocked by dependents report
//     *apperrors.ConflictError.

// CategoryRepository provides data access for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	// FindByName matches case-insensitively. Returns nil, nil if absent.
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id int64, mutate func(*models.Category) error) (*models.Category, error)
	// Delete fails with a ConflictError while elements reference the category.
	Delete(ctx context.Context, id int64) error
}

// OwnerGroupRepository provides data access for owner groups.
type OwnerGroupRepository interface {
	List(ctx context.Context) ([]*models.OwnerGroup, error)
	Create(ctx context.Context, g *models.OwnerGroup) error
	GetByID(ctx context.Context, id int64) (*models.OwnerGroup, error)
	FindByName(ctx context.Context, name string) (*models.OwnerGroup, error)
	Update(ctx context.Context, id int64, mutate func(*models.OwnerGroup) error) (*models.OwnerGroup, error)
	Delete(ctx context.Context, id int64) error
}

// DatabaseConfigRepository provides data access for database configs.
type DatabaseConfigRepository interface {
	List(ctx context.Context) ([]*models.DatabaseConfig, error)
	Create(ctx context.Context, d *models.DatabaseConfig) error
	GetByID(ctx context.Context, id int64) (*models.DatabaseConfig, error)
	Update(ctx context.Context, id int64, mutate func(*models.DatabaseConfig) error) (*models.DatabaseConfig, error)
	// Delete fails with a ConflictError while mappings reference the config.
	Delete(ctx context.Context, id int64) error
}

// ElementRepository provides data access for elements.
type ElementRepository interface {
	List(ctx context.Context) ([]*models.Element, error)
	// Create fails with a ReferenceError when the category or owner group is absent.
	Create(ctx context.Context, e *models.Element) error
	GetByID(ctx context.Context, id int64) (*models.Element, error)
	FindByName(ctx context.Context, name string) (*models.Element, error)
	Update(ctx context.Context, id int64, mutate func(*models.Element) error) (*models.Element, error)
	// Delete removes the element together with its rules, definitions and mappings.
	Delete(ctx context.Context, id int64) error
}

// RuleRepository provides data access for data-quality rules.
type RuleRepository interface {
	List(ctx context.Context) ([]*models.Rule, error)
	ListByElement(ctx context.Context, elementID int64) ([]*models.Rule, error)
	// Create fails with a ReferenceError when the owning element is absent.
	Create(ctx context.Context, r *models.Rule) error
	GetByID(ctx context.Context, id int64) (*models.Rule, error)
	Update(ctx context.Context, id int64, mutate func(*models.Rule) error) (*models.Rule, error)
	Delete(ctx context.Context, id int64) error
}

// DefinitionRepository provides data access for versioned element definitions.
type DefinitionRepository interface {
	ListByElement(ctx context.Context, elementID int64) ([]*models.ElementDefinition, error)
	// Create assigns the next version for the element atomically.
	Create(ctx context.Context, d *models.ElementDefinition) error
}

// MappingRepository provides data access for element-to-column mappings.
type MappingRepository interface {
	ListByElement(ctx context.Context, elementID int64) ([]*models.DatabaseMapping, error)
	// Create fails with a ReferenceError when the element or database config is absent.
	Create(ctx context.Context, m *models.DatabaseMapping) error
	GetByID(ctx context.Context, id int64) (*models.DatabaseMapping, error)
	Delete(ctx context.Context, id int64) error
}

// Catalog groups the repositories of one storage backend.
type Catalog struct {
	Categories      CategoryRepository
	OwnerGroups     OwnerGroupRepository
	DatabaseConfigs DatabaseConfigRepository
	Elements        ElementRepository
	Rules           RuleRepository
	Definitions     DefinitionRepository
	Mappings        MappingRepository
}
