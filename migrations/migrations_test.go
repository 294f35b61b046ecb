package migrations

import (
	"path"
	"testing"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path.Join(t.TempDir(), "migrations.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMigrateAndRollback(t *testing.T) {
	db := openTestDB(t)

	m := gormigrate.New(db, gormigrate.DefaultOptions, List())
	if err := m.Migrate(); err != nil {
		t.Fatal(err)
	}

	if !db.Migrator().HasIndex("whatsapp_accounts", "idx_whatsapp_accounts_single_active") {
		t.Fatal("expected single active account index to exist")
	}

	var count int64
	if err := db.Table("active_account_state").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one active account state row, got %d", count)
	}

	if err := m.RollbackLast(); err != nil {
		t.Fatal(err)
	}

	if db.Migrator().HasIndex("whatsapp_accounts", "idx_whatsapp_accounts_single_active") {
		t.Fatal("expected single active account index to be dropped")
	}

	if err := m.RollbackLast(); err != nil {
		t.Fatal(err)
	}

	if db.Migrator().HasTable("whatsapp_accounts") {
		t.Fatal("expected whatsapp_accounts to be dropped")
	}
}

func TestSecondActiveAccountIsRejected(t *testing.T) {
	db := openTestDB(t)

	if err := gormigrate.New(db, gormigrate.DefaultOptions, List()).Migrate(); err != nil {
		t.Fatal(err)
	}

	insert := "INSERT INTO whatsapp_accounts (account_name, phone_number, api_key, is_active) VALUES (?, ?, ?, ?)"

	if err := db.Exec(insert, "a", "15550000001", "k1", true).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec(insert, "b", "15550000002", "k2", false).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec(insert, "c", "15550000003", "k3", true).Error; err == nil {
		t.Fatal("expected a second active account to violate the unique index")
	}
}
