package memory

import (
	"context"
	"strings"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

type categoryRepository struct{ s *Store }

var _ repositories.CategoryRepository = (*categoryRepository)(nil)

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.categories.filter(nil), nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	c.ID = r.s.categories.reserve()
	r.s.categories.put(c.ID, c.Clone())
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.categories.get(id)
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	found := r.s.categories.filter(func(c *models.Category) bool { return strings.EqualFold(c.Name, name) })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *categoryRepository) Update(ctx context.Context, id int64, mutate func(*models.Category) error) (*models.Category, error) {
	return update(r.s, r.s.categories, id, mutate, func(prev, next *models.Category) error {
		next.ID, next.CreatedAt, next.UpdatedAt = prev.ID, prev.CreatedAt, r.s.now()
		return nil
	})
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.categories.exists(id) {
		return apperrors.NotFound("category", id)
	}
	if refs := r.s.elements.ids(func(e *models.Element) bool { return e.CategoryID == id }); len(refs) > 0 {
		return apperrors.Conflict("category %d is referenced by %d element(s)", id, len(refs))
	}
	r.s.categories.remove(id)
	return nil
}

type ownerGroupRepository struct{ s *Store }

var _ repositories.OwnerGroupRepository = (*ownerGroupRepository)(nil)

func (r *ownerGroupRepository) List(ctx context.Context) ([]*models.OwnerGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.ownerGroups.filter(nil), nil
}

func (r *ownerGroupRepository) Create(ctx context.Context, g *models.OwnerGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	g.ID = r.s.ownerGroups.reserve()
	r.s.ownerGroups.put(g.ID, g.Clone())
	return nil
}

func (r *ownerGroupRepository) GetByID(ctx context.Context, id int64) (*models.OwnerGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.ownerGroups.get(id)
}

func (r *ownerGroupRepository) FindByName(ctx context.Context, name string) (*models.OwnerGroup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	found := r.s.ownerGroups.filter(func(g *models.OwnerGroup) bool { return strings.EqualFold(g.Name, name) })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *ownerGroupRepository) Update(ctx context.Context, id int64, mutate func(*models.OwnerGroup) error) (*models.OwnerGroup, error) {
	return update(r.s, r.s.ownerGroups, id, mutate, func(prev, next *models.OwnerGroup) error {
		next.ID, next.CreatedAt, next.UpdatedAt = prev.ID, prev.CreatedAt, r.s.now()
		return nil
	})
}

func (r *ownerGroupRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.ownerGroups.exists(id) {
		return apperrors.NotFound("owner group", id)
	}
	if refs := r.s.elements.ids(func(e *models.Element) bool { return e.OwnerGroupID == id }); len(refs) > 0 {
		return apperrors.Conflict("owner group %d is referenced by %d element(s)", id, len(refs))
	}
	r.s.ownerGroups.remove(id)
	return nil
}

type databaseConfigRepository struct{ s *Store }

var _ repositories.DatabaseConfigRepository = (*databaseConfigRepository)(nil)

func (r *databaseConfigRepository) List(ctx context.Context) ([]*models.DatabaseConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.dbConfigs.filter(nil), nil
}

func (r *databaseConfigRepository) Create(ctx context.Context, d *models.DatabaseConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	d.CreatedAt, d.UpdatedAt = now, now
	d.ID = r.s.dbConfigs.reserve()
	r.s.dbConfigs.put(d.ID, d.Clone())
	return nil
}

func (r *databaseConfigRepository) GetByID(ctx context.Context, id int64) (*models.DatabaseConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.dbConfigs.get(id)
}

func (r *databaseConfigRepository) Update(ctx context.Context, id int64, mutate func(*models.DatabaseConfig) error) (*models.DatabaseConfig, error) {
	return update(r.s, r.s.dbConfigs, id, mutate, func(prev, next *models.DatabaseConfig) error {
		next.ID, next.CreatedAt, next.UpdatedAt = prev.ID, prev.CreatedAt, r.s.now()
		return nil
	})
}

func (r *databaseConfigRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.dbConfigs.exists(id) {
		return apperrors.NotFound("database config", id)
	}
	if refs := r.s.mappings.ids(func(m *models.DatabaseMapping) bool { return m.DatabaseConfigID == id }); len(refs) > 0 {
		return apperrors.Conflict("database config %d is referenced by %d mapping(s)", id, len(refs))
	}
	r.s.dbConfigs.remove(id)
	return nil
}
