// Package repository contains the MySQL data access layer. Each
// repository implements one of the store interfaces consumed by
// the services and translates driver-level failures into the
// service error kinds: duplicate-key violations become
// service.ErrConflict, missing rows become service.ErrNotFound.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// dupKey reports whether err is a MySQL duplicate-entry error
// (code 1062), i.e. a unique constraint violation.
func dupKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	// Fallback for drivers/wrappers that flatten the error.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
