package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// IntegrityService computes the data signature clients compare against
// their local copy.
type IntegrityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewIntegrityService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *IntegrityService {
	return &IntegrityService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "integrity"),
	}
}

// ComputeDataSignature hashes the user's active items, read from one
// snapshot, in uuid order.
func (s *IntegrityService) ComputeDataSignature(ctx context.Context, userUUID string) (string, error) {
	var items []*models.Item

	err := dbx.WithSnapshot(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		items, err = s.repomanager.Items(tx).FindActive(ctx, userUUID, "")
		return err
	})
	if err != nil {
		return "", fmt.Errorf("error selecting items: %w", err)
	}

	return Signature(items), nil
}

// Signature is the hex SHA-256 of every item's uuid and content, taken in
// uuid order and NUL-separated. The input slice is not modified.
func Signature(items []*models.Item) string {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b *models.Item) int {
		return strings.Compare(a.UUID, b.UUID)
	})

	h := sha256.New()
	for _, it := range sorted {
		h.Write([]byte(it.UUID))
		h.Write([]byte{0})
		h.Write([]byte(it.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
