// Package keyparams caches key parameter sets fetched from the server, so a
// key can be derived again without a round trip.
package keyparams

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when email is not cached.
	Get(ctx context.Context, email string) (*models.CachedKeyParams, error)
	Save(ctx context.Context, email string, params map[string]any) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]string, error)
}
