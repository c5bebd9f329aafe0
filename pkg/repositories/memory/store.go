// Package memory implements the catalog repositories on in-process maps.
//
// Locking: Store.mu guards the shape of every table (which ids exist).
// Create and Delete take it exclusively; reads and updates take it shared.
// Each record additionally has its own mutex, held for the whole
// read-modify-write of an Update, so updates to different records run in
// parallel while updates to the same record are serialized.
package memory

import (
	"sync"
	"time"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/models"
	"github.com/ekaya-inc/element-catalog/pkg/repositories"
)

type record[T any] interface {
	Clone() T
}

type entry[T any] struct {
	mu  sync.Mutex
	val T
}

type table[T record[T]] struct {
	kind   string
	lastID int64
	rows   map[int64]*entry[T]
	order  []int64
}

func newTable[T record[T]](kind string) *table[T] {
	return &table[T]{kind: kind, rows: make(map[int64]*entry[T])}
}

// reserve returns the next id. Ids are never handed out twice, even after
// the record is deleted. Caller holds Store.mu exclusively.
func (t *table[T]) reserve() int64 {
	t.lastID++
	return t.lastID
}

// put stores v under id. Caller holds Store.mu exclusively.
func (t *table[T]) put(id int64, v T) {
	t.rows[id] = &entry[T]{val: v}
	t.order = append(t.order, id)
}

// remove deletes id. Caller holds Store.mu exclusively.
func (t *table[T]) remove(id int64) {
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

func (t *table[T]) exists(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

// get returns a copy of the record. Caller holds Store.mu.
func (t *table[T]) get(id int64) (T, error) {
	var zero T
	e, ok := t.rows[id]
	if !ok {
		return zero, apperrors.NotFound(t.kind, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.val.Clone(), nil
}

// filter returns copies of the records accepted by keep, in id order.
// Caller holds Store.mu.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		e := t.rows[id]
		e.mu.Lock()
		if keep == nil || keep(e.val) {
			out = append(out, e.val.Clone())
		}
		e.mu.Unlock()
	}
	return out
}

// ids returns the ids of records accepted by match. Caller holds Store.mu
// exclusively, so no entry locks are needed.
func (t *table[T]) ids(match func(T) bool) []int64 {
	var out []int64
	for _, id := range t.order {
		if match(t.rows[id].val) {
			out = append(out, id)
		}
	}
	return out
}

// Store holds every catalog table in memory.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	categories  *table[*models.Category]
	ownerGroups *table[*models.OwnerGroup]
	dbConfigs   *table[*models.DatabaseConfig]
	elements    *table[*models.Element]
	rules       *table[*models.Rule]
	definitions *table[*models.ElementDefinition]
	mappings    *table[*models.DatabaseMapping]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:         func() time.Time { return time.Now().UTC() },
		categories:  newTable[*models.Category]("category"),
		ownerGroups: newTable[*models.OwnerGroup]("owner group"),
		dbConfigs:   newTable[*models.DatabaseConfig]("database config"),
		elements:    newTable[*models.Element]("element"),
		rules:       newTable[*models.Rule]("rule"),
		definitions: newTable[*models.ElementDefinition]("element definition"),
		mappings:    newTable[*models.DatabaseMapping]("database mapping"),
	}
}

// Catalog returns the repositories backed by this store.
func (s *Store) Catalog() repositories.Catalog {
	return repositories.Catalog{
		Categories:      &categoryRepository{s: s},
		OwnerGroups:     &ownerGroupRepository{s: s},
		DatabaseConfigs: &databaseConfigRepository{s: s},
		Elements:        &elementRepository{s: s},
		Rules:           &ruleRepository{s: s},
		Definitions:     &definitionRepository{s: s},
		Mappings:        &mappingRepository{s: s},
	}
}

// update runs the read-modify-write of one record under its entry lock.
// mutate must not call back into the store. finish validates the mutated
// copy against the rest of the store and restores immutable fields.
func update[T record[T]](s *Store, t *table[T], id int64, mutate func(T) error, finish func(prev, next T) error) (T, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := t.rows[id]
	if !ok {
		return zero, apperrors.NotFound(t.kind, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.val.Clone()
	if err := mutate(next); err != nil {
		return zero, err
	}
	if err := finish(e.val, next); err != nil {
		return zero, err
	}
	e.val = next
	return next.Clone(), nil
}
