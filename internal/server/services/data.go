package services

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

const bytesPerMegabyte = 1024 * 1024

// FormatMegabytes renders a byte count as megabytes with two decimals,
// e.g. "0.95MB" for 1,000,000 bytes.
func FormatMegabytes(bytes int64) string {
	return fmt.Sprintf("%.2fMB", float64(bytes)/bytesPerMegabyte)
}

// DataService writes items and aggregates over a user's active items.
type DataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewDataService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *DataService {
	return &DataService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "data"),
	}
}

func (s *DataService) CreateItem(ctx context.Context, userUUID, content, contentType string) (*models.Item, error) {
	item, err := s.repomanager.Items(s.db).Create(ctx, &models.Item{
		UserUUID:    userUUID,
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	s.log.Debug(ctx, "item created", "user_uuid", userUUID, "item_uuid", item.UUID, "content_type", contentType)
	return item, nil
}

// TotalDataSize returns the summed content size of the user's active items,
// both formatted and in bytes.
func (s *DataService) TotalDataSize(ctx context.Context, userUUID string) (string, int64, error) {
	total, err := s.repomanager.Items(s.db).SumContentLength(ctx, userUUID)
	if err != nil {
		return "", 0, fmt.Errorf("error summing item sizes: %w", err)
	}
	return FormatMegabytes(total), total, nil
}

// ItemsBySize returns the user's active items, largest first. Items of equal
// size keep their insertion order.
func (s *DataService) ItemsBySize(ctx context.Context, userUUID string) ([]*models.Item, error) {
	items, err := s.repomanager.Items(s.db).FindActive(ctx, userUUID, "")
	if err != nil {
		return nil, fmt.Errorf("error selecting items: %w", err)
	}

	slices.SortStableFunc(items, func(a, b *models.Item) int {
		return cmp.Compare(b.Size(), a.Size())
	})

	return items, nil
}
