// Package items provides the PostgreSQL-backed item store.
package items

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores item, assigning a UUID when it has none.
func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.UUID == "" {
		item.UUID = uuid.NewString()
	}

	query :=
		`INSERT INTO items (uuid, user_uuid, content, content_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, item.UUID, item.UserUUID, item.Content, item.ContentType).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error) {
	query := `SELECT uuid, user_uuid, content, content_type, deleted, created_at, updated_at FROM items
		WHERE user_uuid = $1 AND deleted = false AND ($2 = '' OR content_type = $2)
		ORDER BY seq`

	return r.selectItems(ctx, query, userUUID, contentType)
}

func (r *PostgresRepository) LockActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error) {
	query := `SELECT uuid, user_uuid, content, content_type, deleted, created_at, updated_at FROM items
		WHERE user_uuid = $1 AND deleted = false AND content_type = $2
		ORDER BY created_at DESC, seq DESC
		FOR UPDATE`

	return r.selectItems(ctx, query, userUUID, contentType)
}

func (r *PostgresRepository) selectItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.UUID, &item.UserUUID, &item.Content, &item.ContentType,
			&item.Deleted, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete only matches active rows, so of two racing callers exactly one
// sees a row affected.
func (r *PostgresRepository) SoftDelete(ctx context.Context, itemUUID string) (bool, error) {
	query := `UPDATE items SET deleted = true, updated_at = now() WHERE uuid = $1 AND deleted = false`

	res, err := r.db.ExecContext(ctx, query, itemUUID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}

	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) SumContentLength(ctx context.Context, userUUID string) (int64, error) {
	query := `SELECT COALESCE(SUM(octet_length(content)), 0) FROM items WHERE user_uuid = $1 AND deleted = false`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, userUUID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
