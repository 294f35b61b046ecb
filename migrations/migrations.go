package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/wabridge/wa-relay-api/migrations/internal/m20261016"
	"github.com/wabridge/wa-relay-api/migrations/internal/m20261020"
)

func List() []*gormigrate.Migration {
	ms := []*gormigrate.Migration{
		{
			ID:       m20261016.ID,
			Migrate:  m20261016.Migrate,
			Rollback: m20261016.Rollback,
		},
		{
			ID:       m20261020.ID,
			Migrate:  m20261020.Migrate,
			Rollback: m20261020.Rollback,
		},
	}
	return ms
}
