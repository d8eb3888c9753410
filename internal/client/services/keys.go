// Package services contains application services for the notekeeper client.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
)

// Source tells where a parameter set came from.
type Source string

const (
	SourceServer Source = "server"
	SourceCache  Source = "cache"
)

// KeyService fetches key parameters, keeps them in the local cache and
// derives keys from them.
//
// Contract:
//   - Params: cached set unless refresh or extended is requested. The server
//     answer is cached; when the server is unavailable a cached set is used.
//   - Derive: derives the keys of email's scheme version from password.
//   - Forget / Cached: housekeeping of the local cache.
type KeyService interface {
	Params(ctx context.Context, email string, extended, refresh bool) (map[string]any, Source, error)
	Derive(ctx context.Context, email string, password []byte) (*cryptox.Keys, error)
	Forget(ctx context.Context, email string) error
	Cached(ctx context.Context) ([]string, error)
}

type keyService struct {
	client client.Client
	cache  keyparams.Repository
}

func NewKeyService(c client.Client, cache keyparams.Repository) KeyService {
	return &keyService{client: c, cache: cache}
}

func (s *keyService) Params(ctx context.Context, email string, extended, refresh bool) (map[string]any, Source, error) {
	if !refresh && !extended {
		cached, err := s.cache.Get(ctx, email)
		if err == nil {
			return cached.Params, SourceCache, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, "", err
		}
	}

	params, err := s.client.KeyParams(ctx, email, extended)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) && !extended {
			if cached, cerr := s.cache.Get(ctx, email); cerr == nil {
				return cached.Params, SourceCache, nil
			}
		}
		return nil, "", fmt.Errorf("key params error: %w", err)
	}

	// Provenance fields are not needed to derive a key.
	if !extended {
		if err := s.cache.Save(ctx, email, params); err != nil {
			return nil, "", fmt.Errorf("key params caching error: %w", err)
		}
	}

	return params, SourceServer, nil
}

func (s *keyService) Derive(ctx context.Context, email string, password []byte) (*cryptox.Keys, error) {
	raw, _, err := s.Params(ctx, email, false, false)
	if err != nil {
		return nil, err
	}

	params, err := cryptox.ParamsFromMap(raw)
	if err != nil {
		return nil, err
	}

	return cryptox.DeriveKey(params, password)
}

func (s *keyService) Forget(ctx context.Context, email string) error {
	return s.cache.Delete(ctx, email)
}

func (s *keyService) Cached(ctx context.Context) ([]string, error) {
	return s.cache.List(ctx)
}
