package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/features"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// FeatureService turns off account features stored as feature-configuration
// items. Disabling is a soft delete; an item is never re-activated.
type FeatureService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewFeatureService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *FeatureService {
	return &FeatureService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "features"),
	}
}

// picker chooses the item to disable from the user's active items of one
// content type, newest first. It returns nil to leave everything untouched.
type picker func(ctx context.Context, items []*models.Item) *models.Item

// DisableMFA soft-deletes the most recent MFA item, but only when its
// configuration allows email recovery.
func (s *FeatureService) DisableMFA(ctx context.Context, userUUID string) (bool, error) {
	return s.disable(ctx, userUUID, features.ContentTypeMFA, func(ctx context.Context, items []*models.Item) *models.Item {
		latest := items[0]
		p, ok := s.decode(ctx, latest)
		if !ok || !p.AllowEmailRecovery {
			return nil
		}
		return latest
	})
}

// DisableEmailBackups soft-deletes the most recent email archive extension.
func (s *FeatureService) DisableEmailBackups(ctx context.Context, userUUID string) (bool, error) {
	return s.disable(ctx, userUUID, features.ContentTypeExtension, func(ctx context.Context, items []*models.Item) *models.Item {
		for _, it := range items {
			if p, ok := s.decode(ctx, it); ok && p.Subtype == features.SubtypeEmailArchive {
				return it
			}
		}
		return nil
	})
}

// disable locks the candidate rows for the duration of one transaction, so
// concurrent callers serialize and at most one of them flips the item.
func (s *FeatureService) disable(ctx context.Context, userUUID, contentType string, pick picker) (bool, error) {
	var disabled bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Items(tx)

		items, err := repo.LockActive(ctx, userUUID, contentType)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		target := pick(ctx, items)
		if target == nil {
			return nil
		}

		disabled, err = repo.SoftDelete(ctx, target.UUID)
		if err != nil {
			return err
		}
		if disabled {
			s.log.Info(ctx, "feature disabled", "user_uuid", userUUID, "item_uuid", target.UUID, "content_type", contentType)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error disabling %s: %w", contentType, err)
	}

	return disabled, nil
}

func (s *FeatureService) decode(ctx context.Context, item *models.Item) (features.Payload, bool) {
	p, err := features.Decode(item.Content)
	if err != nil {
		s.log.Warn(ctx, "ignoring malformed feature payload", "item_uuid", item.UUID, "error", err)
		return p, false
	}
	return p, true
}
