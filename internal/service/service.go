// Package service holds the catalog's write-side rules: field validation,
// references to other rows and uniqueness, each checked in the same
// transaction as the insert it guards.
package service

import (
	"database/sql"
	"fmt"

	"catalog-api/internal/domain"
)

// Category writes run serializable so two concurrent re-parentings cannot
// close a cycle between them.
var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

func doesNotExist(id int64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// collect folds a validation failure into v. Any other error is returned
// unchanged.
func collect(v *domain.ValidationError, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := domain.AsValidationError(err); ok {
		v.Merge(ve)
		return nil
	}
	return err
}
