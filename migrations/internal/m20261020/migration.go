package m20261020

import (
	"gorm.io/gorm"
)

const ID = "20261020"

const indexName = "idx_whatsapp_accounts_single_active"

// Migrate adds a partial unique index so the database itself refuses a
// second active account. MySQL has no partial indexes, there the row lock on
// active_account_state is the only guard.
func Migrate(tx *gorm.DB) error {
	switch tx.Dialector.Name() {
	case "postgres", "sqlite":
		return tx.Exec("CREATE UNIQUE INDEX " + indexName + " ON whatsapp_accounts (is_active) WHERE is_active").Error
	}
	return nil
}

func Rollback(tx *gorm.DB) error {
	switch tx.Dialector.Name() {
	case "postgres", "sqlite":
		return tx.Exec("DROP INDEX IF EXISTS " + indexName).Error
	}
	return nil
}
