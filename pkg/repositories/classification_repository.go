package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/element-catalog/pkg/crypto"
	"github.com/ekaya-inc/element-catalog/pkg/database"
	"github.com/ekaya-inc/element-catalog/pkg/models"
)

// ============================================================================
// Categories
// ============================================================================

type categoryRepository struct {
	db *database.DB
}

var _ CategoryRepository = (*categoryRepository)(nil)

const selectCategory = `
	SELECT id, name, description, created_at, updated_at
	FROM categories`

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectCategory+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return collect(rows, scanCategory)
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query, c.Name, c.Description).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectCategory+` WHERE id = $1`, id)
	return getOne(row, scanCategory, "category", id)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectCategory+` WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`, name)
	return findOne(row, scanCategory)
}

func (r *categoryRepository) Update(ctx context.Context, id int64, mutate func(*models.Category) error) (*models.Category, error) {
	return lockedUpdate(ctx, r.db, "category", id, selectCategory, scanCategory, mutate,
		func(ctx context.Context, tx pgx.Tx, prev, next *models.Category) error {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
			err := tx.QueryRow(ctx, `
				UPDATE categories SET name = $2, description = $3, updated_at = now()
				WHERE id = $1
				RETURNING updated_at`,
				id, next.Name, next.Description,
			).Scan(&next.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}
			return nil
		})
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "categories", "category", id)
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &c, nil
}

// ============================================================================
// Owner groups
// ============================================================================

type ownerGroupRepository struct {
	db *database.DB
}

var _ OwnerGroupRepository = (*ownerGroupRepository)(nil)

const selectOwnerGroup = `
	SELECT id, name, description, created_at, updated_at
	FROM owner_groups`

func (r *ownerGroupRepository) List(ctx context.Context) ([]*models.OwnerGroup, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectOwnerGroup+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query owner groups: %w", err)
	}
	return collect(rows, scanOwnerGroup)
}

func (r *ownerGroupRepository) Create(ctx context.Context, g *models.OwnerGroup) error {
	query := `
		INSERT INTO owner_groups (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.Conn(ctx).QueryRow(ctx, query, g.Name, g.Description).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create owner group: %w", err)
	}
	return nil
}

func (r *ownerGroupRepository) GetByID(ctx context.Context, id int64) (*models.OwnerGroup, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectOwnerGroup+` WHERE id = $1`, id)
	return getOne(row, scanOwnerGroup, "owner group", id)
}

func (r *ownerGroupRepository) FindByName(ctx context.Context, name string) (*models.OwnerGroup, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectOwnerGroup+` WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`, name)
	return findOne(row, scanOwnerGroup)
}

func (r *ownerGroupRepository) Update(ctx context.Context, id int64, mutate func(*models.OwnerGroup) error) (*models.OwnerGroup, error) {
	return lockedUpdate(ctx, r.db, "owner group", id, selectOwnerGroup, scanOwnerGroup, mutate,
		func(ctx context.Context, tx pgx.Tx, prev, next *models.OwnerGroup) error {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
			err := tx.QueryRow(ctx, `
				UPDATE owner_groups SET name = $2, description = $3, updated_at = now()
				WHERE id = $1
				RETURNING updated_at`,
				id, next.Name, next.Description,
			).Scan(&next.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update owner group: %w", err)
			}
			return nil
		})
}

func (r *ownerGroupRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "owner_groups", "owner group", id)
}

func scanOwnerGroup(row pgx.Row) (*models.OwnerGroup, error) {
	var g models.OwnerGroup
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan owner group: %w", err)
	}
	return &g, nil
}

// ============================================================================
// Database configs
// ============================================================================

type databaseConfigRepository struct {
	db     *database.DB
	sealer *crypto.Sealer
}

var _ DatabaseConfigRepository = (*databaseConfigRepository)(nil)

const selectDatabaseConfig = `
	SELECT id, name, connection_url, description, created_at, updated_at
	FROM database_configs`

func (r *databaseConfigRepository) List(ctx context.Context) ([]*models.DatabaseConfig, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, selectDatabaseConfig+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query database configs: %w", err)
	}
	return collect(rows, r.scan)
}

func (r *databaseConfigRepository) Create(ctx context.Context, d *models.DatabaseConfig) error {
	sealed, err := r.sealer.Seal(d.ConnectionURL)
	if err != nil {
		return fmt.Errorf("failed to seal connection url: %w", err)
	}

	query := `
		INSERT INTO database_configs (name, connection_url, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err = r.db.Conn(ctx).QueryRow(ctx, query, d.Name, sealed, d.Description).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create database config: %w", err)
	}
	return nil
}

func (r *databaseConfigRepository) GetByID(ctx context.Context, id int64) (*models.DatabaseConfig, error) {
	row := r.db.Conn(ctx).QueryRow(ctx, selectDatabaseConfig+` WHERE id = $1`, id)
	return getOne(row, r.scan, "database config", id)
}

func (r *databaseConfigRepository) Update(ctx context.Context, id int64, mutate func(*models.DatabaseConfig) error) (*models.DatabaseConfig, error) {
	return lockedUpdate(ctx, r.db, "database config", id, selectDatabaseConfig, r.scan, mutate,
		func(ctx context.Context, tx pgx.Tx, prev, next *models.DatabaseConfig) error {
			next.ID, next.CreatedAt = prev.ID, prev.CreatedAt
			sealed, err := r.sealer.Seal(next.ConnectionURL)
			if err != nil {
				return fmt.Errorf("failed to seal connection url: %w", err)
			}
			err = tx.QueryRow(ctx, `
				UPDATE database_configs
				SET name = $2, connection_url = $3, description = $4, updated_at = now()
				WHERE id = $1
				RETURNING updated_at`,
				id, next.Name, sealed, next.Description,
			).Scan(&next.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to update database config: %w", err)
			}
			return nil
		})
}

func (r *databaseConfigRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.db, "database_configs", "database config", id)
}

func (r *databaseConfigRepository) scan(row pgx.Row) (*models.DatabaseConfig, error) {
	var d models.DatabaseConfig
	var stored string
	if err := row.Scan(&d.ID, &d.Name, &stored, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan database config: %w", err)
	}

	url, err := r.sealer.Open(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection url of database config %d: %w", d.ID, err)
	}
	d.ConnectionURL = url
	return &d, nil
}
