// Package storage bootstraps local persistence: it opens the single shared
// SQLite connection, applies the embedded goose migrations, and wires the
// repositories. The connection is opened once per process and reused; it is
// never reopened per call.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/authkeeper/internal/migrations"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/users"

	_ "modernc.org/sqlite"
)

// Repositories groups the repositories bound to the shared connection.
type Repositories struct {
	Users    users.Repository
	Metadata metadata.Repository
	DB       *sql.DB
}

// RunMigrations applies the embedded migrations. Safe to call repeatedly;
// goose tracks applied versions in the database itself.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the database at dsn, verifies the connection, ensures
// the schema, and returns the wired repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repositories{
		Users:    users.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}

// Close releases the shared connection.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
