package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/backup"
	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// BackupService exports a user's items into a restore file.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     backup.Storage
	log         logging.Logger
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, storage backup.Storage, log logging.Logger) *BackupService {
	return &BackupService{
		db:          db,
		repomanager: m,
		storage:     storage,
		log:         log.With("module", "backup"),
	}
}

// DownloadBackup writes "<email>-restore.txt" and returns its location. The
// items and key parameters come from one snapshot. Storage failures are
// returned as is (wrapping common.ErrStorage) and not retried.
func (s *BackupService) DownloadBackup(ctx context.Context, userUUID string) (string, error) {
	var (
		user   *models.User
		items  []*models.Item
		params keyparams.Params
	)

	err := dbx.WithSnapshot(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByUUID(ctx, userUUID)
		if err != nil {
			return err
		}

		params, err = keyparams.Resolve(user, false)
		if err != nil {
			return err
		}

		items, err = s.repomanager.Items(tx).FindActive(ctx, userUUID, "")
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrUnsupportedSchemeVersion) {
			return "", err
		}
		return "", fmt.Errorf("error reading backup data: %w", err)
	}

	data, err := backup.NewDocument(items, params).Marshal()
	if err != nil {
		return "", fmt.Errorf("error encoding backup: %w", err)
	}

	location, err := s.storage.Save(ctx, backup.FileName(user.Email), data)
	if err != nil {
		s.log.Error(ctx, "backup write failed", "user_uuid", userUUID, "error", err)
		return "", err
	}

	s.log.Info(ctx, "backup written", "user_uuid", userUUID, "items", len(items), "bytes", len(data))
	return location, nil
}
