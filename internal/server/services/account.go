package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// AccountService serves account lookups: key parameters and the public
// profile.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      []byte
	log         logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		secret:      []byte(cfg.SecretKey),
		log:         log.With("module", "account"),
	}
}

// KeyParams returns the key-derivation parameters for email. Unknown emails
// get a stable pseudo parameter set, so the response does not reveal whether
// the account exists.
func (s *AccountService) KeyParams(ctx context.Context, email string, extended bool) (keyparams.Params, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "user lookup failed", "error", err)
			return nil, common.ErrorInternal
		}
		user = keyparams.PseudoUser(email, s.secret)
	}

	params, err := keyparams.Resolve(user, extended)
	if err != nil {
		s.log.Error(ctx, "key params unavailable", "user_uuid", user.UUID, "error", err)
		return nil, err
	}

	return params, nil
}

// Profile returns the {uuid, email} view of the account.
func (s *AccountService) Profile(ctx context.Context, userUUID string) (models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.PublicUser{}, common.ErrorNotFound
		}
		s.log.Error(ctx, "user lookup failed", "user_uuid", userUUID, "error", err)
		return models.PublicUser{}, common.ErrorInternal
	}
	return user.Public(), nil
}
