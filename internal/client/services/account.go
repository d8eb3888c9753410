package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
	"github.com/dmitrijs2005/notekeeper/internal/netx"
	"github.com/dmitrijs2005/notekeeper/internal/server/features"
)

// ContentTypeNote is the content type of notes written by AddNote.
const ContentTypeNote = "Note"

// downloadFile is a test seam for netx.DownloadFile.
var downloadFile = netx.DownloadFile

// AccountService groups the authenticated account operations.
type AccountService interface {
	Ping(ctx context.Context) error
	Whoami(ctx context.Context) (*models.Profile, error)
	Size(ctx context.Context) (*models.DataSize, error)
	Rank(ctx context.Context) ([]models.ItemInfo, error)
	Signature(ctx context.Context) (string, error)
	// Backup asks the server for a backup. A URL location is downloaded into
	// dir and the local path is returned; any other location is returned as is.
	Backup(ctx context.Context, dir string) (location string, saved string, err error)
	DisableMFA(ctx context.Context) (bool, error)
	DisableEmailBackups(ctx context.Context) (bool, error)
	EnableMFA(ctx context.Context, allowEmailRecovery bool) (string, error)
	EnableEmailBackups(ctx context.Context) (string, error)
	AddNote(ctx context.Context, keys *cryptox.Keys, text string) (string, error)
	Close() error
}

type accountService struct {
	client client.Client
}

func NewAccountService(c client.Client) AccountService {
	return &accountService{client: c}
}

func (s *accountService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *accountService) Whoami(ctx context.Context) (*models.Profile, error) {
	return s.client.Profile(ctx)
}

func (s *accountService) Size(ctx context.Context) (*models.DataSize, error) {
	return s.client.DataSize(ctx)
}

func (s *accountService) Rank(ctx context.Context) ([]models.ItemInfo, error) {
	return s.client.ItemsBySize(ctx)
}

func (s *accountService) Signature(ctx context.Context) (string, error) {
	return s.client.DataSignature(ctx)
}

func (s *accountService) Backup(ctx context.Context, dir string) (string, string, error) {
	location, err := s.client.DownloadBackup(ctx)
	if err != nil {
		return "", "", err
	}

	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return location, "", nil
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "restore.txt"
	}
	dest := filepath.Join(dir, name)

	if err := downloadFile(ctx, location, dest); err != nil {
		return location, "", fmt.Errorf("backup download error: %w", err)
	}
	return location, dest, nil
}

func (s *accountService) DisableMFA(ctx context.Context) (bool, error) {
	return s.client.DisableMFA(ctx)
}

func (s *accountService) DisableEmailBackups(ctx context.Context) (bool, error) {
	return s.client.DisableEmailBackups(ctx)
}

func (s *accountService) EnableMFA(ctx context.Context, allowEmailRecovery bool) (string, error) {
	return s.createFeature(ctx, features.ContentTypeMFA, features.Payload{AllowEmailRecovery: allowEmailRecovery})
}

func (s *accountService) EnableEmailBackups(ctx context.Context) (string, error) {
	return s.createFeature(ctx, features.ContentTypeExtension, features.Payload{Subtype: features.SubtypeEmailArchive})
}

func (s *accountService) createFeature(ctx context.Context, contentType string, p features.Payload) (string, error) {
	content, err := features.Encode(p)
	if err != nil {
		return "", err
	}
	return s.client.CreateItem(ctx, content, contentType)
}

// AddNote seals text with the master key and stores it as a note item.
func (s *accountService) AddNote(ctx context.Context, keys *cryptox.Keys, text string) (string, error) {
	content, err := cryptox.Seal([]byte(text), keys.MasterKey)
	if err != nil {
		return "", fmt.Errorf("sealing note: %w", err)
	}
	return s.client.CreateItem(ctx, content, ContentTypeNote)
}

func (s *accountService) Close() error {
	return s.client.Close()
}
