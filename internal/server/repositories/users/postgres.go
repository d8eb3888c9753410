// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const userColumns = `uuid, email, encrypted_password, version, pw_nonce, pw_salt, pw_cost,
		pw_alg, pw_func, pw_key_size, kp_origination, kp_created, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in the generated UUID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (email, encrypted_password, version, pw_nonce, pw_salt, pw_cost,
		pw_alg, pw_func, pw_key_size, kp_origination, kp_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING uuid, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.EncryptedPassword, user.Version, user.PwNonce, user.PwSalt, user.PwCost,
		user.PwAlg, user.PwFunc, user.PwKeySize, user.KpOrigination, user.KpCreated,
	).Scan(&user.UUID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	return r.getOne(ctx, query, uuid)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.UUID, &u.Email, &u.EncryptedPassword, &u.Version, &u.PwNonce, &u.PwSalt, &u.PwCost,
		&u.PwAlg, &u.PwFunc, &u.PwKeySize, &u.KpOrigination, &u.KpCreated, &u.CreatedAt, &u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}
