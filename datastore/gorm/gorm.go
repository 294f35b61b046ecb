package gorm

import (
	"fmt"
	"strings"

	"github.com/go-gormigrate/gormigrate/v2"
	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/configs"
	"github.com/wabridge/wa-relay-api/migrations"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dbTypePostgresql = "psql"
	dbTypeMysql      = "mysql"
	dbTypeSqlite     = "sqlite"
)

// New opens the database described by cfg and runs all pending migrations.
func New(cfg *configs.Config) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	}
	if cfg.DatabaseMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations.List())
	if err := m.Migrate(); err != nil {
		Close(db)
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.WithFields(log.Fields{"type": cfg.DatabaseType}).Debug("Database ready")

	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		panic("unable to close database")
	}
	err = sqlDB.Close()
	if err != nil {
		panic("unable to close database")
	}
}

func dialector(cfg *configs.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseType {
	case dbTypePostgresql:
		dsn := cfg.DatabaseDSN
		if cfg.DatabaseInsecureTLS {
			dsn = withSSLModeRequire(dsn)
		}
		return postgres.Open(dsn), nil
	case dbTypeMysql:
		return mysql.Open(cfg.DatabaseDSN), nil
	case dbTypeSqlite:
		return sqlite.Open(cfg.DatabaseDSN), nil
	default:
		return nil, fmt.Errorf("database type '%s' not supported", cfg.DatabaseType)
	}
}

// withSSLModeRequire asks for an encrypted connection without certificate
// verification, unless the DSN already sets its own sslmode.
func withSSLModeRequire(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&sslmode=require"
		}
		return dsn + "?sslmode=require"
	}

	return strings.TrimSpace(dsn + " sslmode=require")
}
