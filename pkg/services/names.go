package services

import (
	"context"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
)

// nameLookup reports the id of the record currently holding name, if any.
type nameLookup func(ctx context.Context, name string) (id int64, found bool, err error)

// checkNameFree fails with a ConflictError when another record of kind
// already uses name (case-insensitively). selfID is the record being
// updated, 0 on create. The check and the subsequent write are not atomic;
// two concurrent creates with the same name can both succeed.
func checkNameFree(ctx context.Context, lookup nameLookup, kind, name string, selfID int64) error {
	id, found, err := lookup(ctx, name)
	if err != nil {
		return err
	}
	if found && id != selfID {
		return apperrors.Conflict("%s named %q already exists", kind, name)
	}
	return nil
}
