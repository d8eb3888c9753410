package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

type fakeClient struct {
	client.Client

	params    map[string]any
	paramsErr error
	calls     []string

	lastEmail    string
	lastExtended bool

	location    string
	locationErr error

	createdContent string
	createdType    string
	createErr      error

	disabled bool

	closed bool
}

func (f *fakeClient) KeyParams(ctx context.Context, email string, extended bool) (map[string]any, error) {
	f.calls = append(f.calls, "keyparams")
	f.lastEmail, f.lastExtended = email, extended
	return f.params, f.paramsErr
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.calls = append(f.calls, "ping")
	return nil
}

func (f *fakeClient) Profile(ctx context.Context) (*models.Profile, error) {
	return &models.Profile{UUID: "u-1", Email: "a@b.c"}, nil
}

func (f *fakeClient) DataSize(ctx context.Context) (*models.DataSize, error) {
	return &models.DataSize{Label: "0.00MB", Bytes: 10}, nil
}

func (f *fakeClient) ItemsBySize(ctx context.Context) ([]models.ItemInfo, error) {
	return []models.ItemInfo{{UUID: "i-1", ContentType: "Note", Size: 10}}, nil
}

func (f *fakeClient) DataSignature(ctx context.Context) (string, error) {
	return "sig", nil
}

func (f *fakeClient) DownloadBackup(ctx context.Context) (string, error) {
	return f.location, f.locationErr
}

func (f *fakeClient) CreateItem(ctx context.Context, content, contentType string) (string, error) {
	f.createdContent, f.createdType = content, contentType
	return "i-new", f.createErr
}

func (f *fakeClient) DisableMFA(ctx context.Context) (bool, error) {
	f.calls = append(f.calls, "disable-mfa")
	return f.disabled, nil
}

func (f *fakeClient) DisableEmailBackups(ctx context.Context) (bool, error) {
	f.calls = append(f.calls, "disable-email-backups")
	return f.disabled, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type memCache struct {
	rows    map[string]*models.CachedKeyParams
	saveErr error
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{rows: map[string]*models.CachedKeyParams{}}
}

func (m *memCache) Get(ctx context.Context, email string) (*models.CachedKeyParams, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	row, ok := m.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return row, nil
}

func (m *memCache) Save(ctx context.Context, email string, params map[string]any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[email] = &models.CachedKeyParams{Email: email, Params: params, FetchedAt: time.Now()}
	return nil
}

func (m *memCache) Delete(ctx context.Context, email string) error {
	delete(m.rows, email)
	return nil
}

func (m *memCache) List(ctx context.Context) ([]string, error) {
	var out []string
	for k := range m.rows {
		out = append(out, k)
	}
	return out, nil
}
