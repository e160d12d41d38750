package database

import (
	"database/sql"

	"hackathon_hub/internal/platform/database/migrations"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"
)

// NewMigrator wraps an open pool for bun's migrator. The returned bun.DB
// shares db; closing it closes db.
func NewMigrator(db *sql.DB) (*migrate.Migrator, *bun.DB) {
	bdb := bun.NewDB(db, pgdialect.New())
	return migrate.NewMigrator(bdb, migrations.Migrations), bdb
}
