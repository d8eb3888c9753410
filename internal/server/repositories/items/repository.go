package items

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository is the item store. Every finder only returns items with
// deleted = false.
type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	// FindActive returns the user's active items in insertion order. An empty
	// contentType matches every type.
	FindActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error)
	// LockActive returns the user's active items of contentType, newest
	// first, holding row locks until the surrounding transaction ends.
	LockActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error)
	// SoftDelete flips deleted to true. It reports false when the item was
	// already deleted or does not exist.
	SoftDelete(ctx context.Context, itemUUID string) (bool, error)
	SumContentLength(ctx context.Context, userUUID string) (int64, error)
}
