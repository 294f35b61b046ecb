package test

import (
	"testing"

	"github.com/wabridge/wa-relay-api/configs"
	"github.com/wabridge/wa-relay-api/datastore/gorm"
	upstreamgorm "gorm.io/gorm"
)

// GetDatabase opens and migrates the database from cfg. It is closed when
// the test finishes.
func GetDatabase(t *testing.T, cfg *configs.Config) *upstreamgorm.DB {
	t.Helper()

	db, err := gorm.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { gorm.Close(db) })

	return db
}
