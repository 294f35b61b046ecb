// Package test contains helpers shared by tests across packages.
package test

import (
	"path"
	"testing"

	"github.com/wabridge/wa-relay-api/configs"
)

// LoadConfig returns a config pointing at a fresh sqlite database in a
// per-test temporary directory.
func LoadConfig(t *testing.T) *configs.Config {
	t.Helper()

	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DATABASE_URL", path.Join(t.TempDir(), "test.db"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := configs.ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}

	configs.ConfigureLogger(cfg.LogLevel)

	return cfg
}
