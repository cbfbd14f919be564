package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// The binary carries its migrations, so no files are needed at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// schemaVersionTable stores the applied migration version.
const schemaVersionTable = "schema_version"

// Migrate applies the embedded migrations with jackc/tern and then checks
// that every registered entity has its table.
//
// A single connection is used rather than the pool; this is a one-off action.
func Migrate(ctx context.Context, logger *zerolog.Logger, opts ConnectionOptions) error {
	conn, err := pgx.Connect(ctx, opts.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, schemaVersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}

	return verifyEntities(ctx, conn, opts.Entities)
}

// verifyEntities fails when a registered entity has no table.
func verifyEntities(ctx context.Context, conn *pgx.Conn, entities []Entity) error {
	for _, entity := range entities {
		var exists bool
		if err := conn.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, entity.Table).Scan(&exists); err != nil {
			return fmt.Errorf("checking table for entity %s: %w", entity.Name, err)
		}
		if !exists {
			return fmt.Errorf("entity %s is registered but table %q does not exist", entity.Name, entity.Table)
		}
	}
	return nil
}
