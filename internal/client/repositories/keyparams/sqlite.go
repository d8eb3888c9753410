package keyparams

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Get(ctx context.Context, email string) (*models.CachedKeyParams, error) {
	var (
		raw       string
		fetchedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT params, fetched_at FROM key_params WHERE email = ?`, email,
	).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key params[%s]: %w", email, err)
	}

	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("failed to decode key params[%s]: %w", email, err)
	}

	return &models.CachedKeyParams{Email: email, Params: params, FetchedAt: fetchedAt}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, email string, params map[string]any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode key params[%s]: %w", email, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO key_params (email, params, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET params = excluded.params, fetched_at = excluded.fetched_at
	`, email, string(raw), r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save key params[%s]: %w", email, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM key_params WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("failed to delete key params[%s]: %w", email, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM key_params ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list key params: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan key params row: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key params rows: %w", err)
	}

	return emails, nil
}
