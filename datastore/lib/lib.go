package lib

import (
	"sync"

	"gorm.io/gorm"
)

// sqlite allows a single writer, concurrent write transactions fail with
// "database is locked" instead of waiting.
var sqliteMutex sync.Mutex

// GormTransaction runs fn inside a database transaction. The transaction is
// rolled back if fn returns an error and committed otherwise.
// When using sqlite, transactions are serialized within the process.
func GormTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if IsSqlite(db) {
		sqliteMutex.Lock()
		defer sqliteMutex.Unlock()
	}

	return db.Transaction(fn)
}

func IsSqlite(db *gorm.DB) bool {
	return db.Config.Dialector.Name() == "sqlite"
}
