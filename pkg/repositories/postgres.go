package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/crypto"
	"github.com/ekaya-inc/element-catalog/pkg/database"
)

// NewPostgresCatalog returns the repositories backed by Postgres.
// Connection URLs are sealed with sealer before they are written; a nil
// sealer stores them as given.
func NewPostgresCatalog(db *database.DB, sealer *crypto.Sealer) Catalog {
	return Catalog{
		Categories:      &categoryRepository{db: db},
		OwnerGroups:     &ownerGroupRepository{db: db},
		DatabaseConfigs: &databaseConfigRepository{db: db, sealer: sealer},
		Elements:        &elementRepository{db: db},
		Rules:           &ruleRepository{db: db},
		Definitions:     &definitionRepository{db: db},
		Mappings:        &mappingRepository{db: db},
	}
}

const pgForeignKeyViolation = "23503"

type foreignKey struct {
	field string
	kind  string
}

// foreignKeys maps constraint names from migrations/001_catalog.up.sql to
// the API field that carries the reference.
var foreignKeys = map[string]foreignKey{
	"business_elements_category_fk":        {field: "categoryId", kind: "category"},
	"business_elements_owner_group_fk":     {field: "ownerGroupId", kind: "owner group"},
	"data_quality_rules_element_fk":        {field: "elementId", kind: "element"},
	"element_definitions_element_fk":       {field: "elementId", kind: "element"},
	"database_mappings_element_fk":         {field: "elementId", kind: "element"},
	"database_mappings_database_config_fk": {field: "databaseConfigId", kind: "database config"},
}

// referenceError turns a foreign key violation raised by an insert or
// update into a ReferenceError. ids holds the referenced id per field.
func referenceError(err error, ids map[string]int64) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgForeignKeyViolation {
		return nil
	}
	fk, ok := foreignKeys[pgErr.ConstraintName]
	if !ok {
		return nil
	}
	return &apperrors.ReferenceError{Field: fk.field, Kind: fk.kind, ID: ids[fk.field]}
}

// deleteRow removes one row by id. A foreign key violation means other
// rows still reference it.
func deleteRow(ctx context.Context, db *database.DB, table, kind string, id int64) error {
	result, err := db.Conn(ctx).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return apperrors.Conflict("%s %d is referenced by other records", kind, id)
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(kind, id)
	}
	return nil
}

// lockedUpdate reads one row FOR UPDATE, applies mutate to it and lets
// save write the result, all in one transaction. save receives the row as
// read (prev) so it can pin immutable fields on next.
func lockedUpdate[T interface{ Clone() T }](
	ctx context.Context,
	db *database.DB,
	kind string,
	id int64,
	selectSQL string,
	scan func(pgx.Row) (T, error),
	mutate func(T) error,
	save func(ctx context.Context, tx pgx.Tx, prev, next T) error,
) (T, error) {
	var zero T

	tx, err := db.Conn(ctx).Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prev, err := scan(tx.QueryRow(ctx, selectSQL+` WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, apperrors.NotFound(kind, id)
	}
	if err != nil {
		return zero, err
	}

	next := prev.Clone()
	if err := mutate(next); err != nil {
		return zero, err
	}
	if err := save(ctx, tx, prev, next); err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("failed to commit %s update: %w", kind, err)
	}
	return next, nil
}

// collect scans every row with scan. An empty result is an empty slice.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// findOne returns nil, nil when the query matches nothing.
func findOne[T any](row pgx.Row, scan func(pgx.Row) (T, error)) (T, error) {
	var zero T
	v, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, nil
	}
	return v, err
}

// getOne maps an empty result to a NotFound error.
func getOne[T any](row pgx.Row, scan func(pgx.Row) (T, error), kind string, id int64) (T, error) {
	var zero T
	v, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, apperrors.NotFound(kind, id)
	}
	return v, err
}

// jsonbValue encodes a JSON object for a JSONB column. nil stores NULL.
func jsonbValue(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func jsonbObject(data []byte) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
