package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate serializes per-pool read-modify-write cycles with a row
// lock. SQLite (used by the test suite) rejects FOR UPDATE and already
// serializes writers, so the clause is applied on postgres only.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
