package memory

import (
	"context"
	"strings"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

type elementRepository struct{ s *Store }

var _ repositories.ElementRepository = (*elementRepository)(nil)

// checkElementRefs reports the first missing foreign key of e.
// Caller holds Store.mu.
func (s *Store) checkElementRefs(e *models.Element) error {
	if !s.categories.exists(e.CategoryID) {
		return &apperrors.ReferenceError{Field: "categoryId", Kind: "category", ID: e.CategoryID}
	}
	if !s.ownerGroups.exists(e.OwnerGroupID) {
		return &apperrors.ReferenceError{Field: "ownerGroupId", Kind: "owner group", ID: e.OwnerGroupID}
	}
	return nil
}

func (s *Store) checkElementExists(id int64) error {
	if !s.elements.exists(id) {
		return &apperrors.ReferenceError{Field: "elementId", Kind: "element", ID: id}
	}
	return nil
}

func (r *elementRepository) List(ctx context.Context) ([]*models.Element, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.elements.filter(nil), nil
}

func (r *elementRepository) Create(ctx context.Context, e *models.Element) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkElementRefs(e); err != nil {
		return err
	}

	now := r.s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	e.ID = r.s.elements.reserve()
	r.s.elements.put(e.ID, e.Clone())
	return nil
}

func (r *elementRepository) GetByID(ctx context.Context, id int64) (*models.Element, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.elements.get(id)
}

func (r *elementRepository) FindByName(ctx context.Context, name string) (*models.Element, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	found := r.s.elements.filter(func(e *models.Element) bool { return strings.EqualFold(e.Name, name) })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *elementRepository) Update(ctx context.Context, id int64, mutate func(*models.Element) error) (*models.Element, error) {
	return update(r.s, r.s.elements, id, mutate, func(prev, next *models.Element) error {
		if err := r.s.checkElementRefs(next); err != nil {
			return err
		}
		next.ID, next.CreatedAt, next.UpdatedAt = prev.ID, prev.CreatedAt, r.s.now()
		return nil
	})
}

// Delete removes the element and cascades to its rules, definitions and
// mappings in one critical section.
func (r *elementRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.elements.exists(id) {
		return apperrors.NotFound("element", id)
	}

	for _, rid := range r.s.rules.ids(func(x *models.Rule) bool { return x.ElementID == id }) {
		r.s.rules.remove(rid)
	}
	for _, did := range r.s.definitions.ids(func(x *models.ElementDefinition) bool { return x.ElementID == id }) {
		r.s.definitions.remove(did)
	}
	for _, mid := range r.s.mappings.ids(func(x *models.DatabaseMapping) bool { return x.ElementID == id }) {
		r.s.mappings.remove(mid)
	}
	r.s.elements.remove(id)
	return nil
}

type ruleRepository struct{ s *Store }

var _ repositories.RuleRepository = (*ruleRepository)(nil)

func (r *ruleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rules.filter(nil), nil
}

func (r *ruleRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.Rule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rules.filter(func(x *models.Rule) bool { return x.ElementID == elementID }), nil
}

func (r *ruleRepository) Create(ctx context.Context, rule *models.Rule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkElementExists(rule.ElementID); err != nil {
		return err
	}

	now := r.s.now()
	rule.CreatedAt, rule.UpdatedAt = now, now
	rule.ID = r.s.rules.reserve()
	r.s.rules.put(rule.ID, rule.Clone())
	return nil
}

func (r *ruleRepository) GetByID(ctx context.Context, id int64) (*models.Rule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rules.get(id)
}

func (r *ruleRepository) Update(ctx context.Context, id int64, mutate func(*models.Rule) error) (*models.Rule, error) {
	return update(r.s, r.s.rules, id, mutate, func(prev, next *models.Rule) error {
		next.ID, next.ElementID, next.CreatedAt, next.UpdatedAt = prev.ID, prev.ElementID, prev.CreatedAt, r.s.now()
		return nil
	})
}

func (r *ruleRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.rules.exists(id) {
		return apperrors.NotFound("rule", id)
	}
	r.s.rules.remove(id)
	return nil
}

type definitionRepository struct{ s *Store }

var _ repositories.DefinitionRepository = (*definitionRepository)(nil)

func (r *definitionRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.ElementDefinition, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.definitions.filter(func(x *models.ElementDefinition) bool { return x.ElementID == elementID }), nil
}

func (r *definitionRepository) Create(ctx context.Context, d *models.ElementDefinition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkElementExists(d.ElementID); err != nil {
		return err
	}

	latest := 0
	for _, id := range r.s.definitions.ids(func(x *models.ElementDefinition) bool { return x.ElementID == d.ElementID }) {
		if v := r.s.definitions.rows[id].val.Version; v > latest {
			latest = v
		}
	}

	d.Version = latest + 1
	d.CreatedAt = r.s.now()
	d.ID = r.s.definitions.reserve()
	r.s.definitions.put(d.ID, d.Clone())
	return nil
}

type mappingRepository struct{ s *Store }

var _ repositories.MappingRepository = (*mappingRepository)(nil)

func (r *mappingRepository) ListByElement(ctx context.Context, elementID int64) ([]*models.DatabaseMapping, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.mappings.filter(func(x *models.DatabaseMapping) bool { return x.ElementID == elementID }), nil
}

func (r *mappingRepository) Create(ctx context.Context, m *models.DatabaseMapping) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkElementExists(m.ElementID); err != nil {
		return err
	}
	if !r.s.dbConfigs.exists(m.DatabaseConfigID) {
		return &apperrors.ReferenceError{Field: "databaseConfigId", Kind: "database config", ID: m.DatabaseConfigID}
	}

	now := r.s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	m.ID = r.s.mappings.reserve()
	r.s.mappings.put(m.ID, m.Clone())
	return nil
}

func (r *mappingRepository) GetByID(ctx context.Context, id int64) (*models.DatabaseMapping, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.mappings.get(id)
}

func (r *mappingRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.mappings.exists(id) {
		return apperrors.NotFound("database mapping", id)
	}
	r.s.mappings.remove(id)
	return nil
}
