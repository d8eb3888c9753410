package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	KeyParams(ctx context.Context, email string, extended bool) (map[string]any, error)
	Profile(ctx context.Context) (*models.Profile, error)
	CreateItem(ctx context.Context, content, contentType string) (string, error)
	DataSize(ctx context.Context) (*models.DataSize, error)
	ItemsBySize(ctx context.Context) ([]models.ItemInfo, error)
	DataSignature(ctx context.Context) (string, error)
	DownloadBackup(ctx context.Context) (string, error)
	DisableMFA(ctx context.Context) (bool, error)
	DisableEmailBackups(ctx context.Context) (bool, error)
}
