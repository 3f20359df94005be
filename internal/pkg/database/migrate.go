package database

import (
	"context"
	"fmt"

	"github.com/infinite-track/hris-backend-go/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const migrationTable = "schema_migrations"

// Migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations using a database/sql view of the pool.
func Migrate(ctx context.Context, db *DB, command string, args ...string) error {
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, sqlDB, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
