package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/migrations"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/keyparams"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Repositories struct {
	db        *sql.DB
	KeyParams keyparams.Repository
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local cache at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		db:        db,
		KeyParams: keyparams.NewSQLiteRepository(db),
	}, nil
}
