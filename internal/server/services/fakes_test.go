package services

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/items"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- users ---

type fakeUsersRepo struct {
	users.Repository
	byUUID map[string]*models.User
	err    error
}

func newFakeUsers(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byUUID: map[string]*models.User{}}
	for _, u := range us {
		r.byUUID[u.UUID] = u
	}
	return r
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byUUID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUUID(ctx context.Context, uuid string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byUUID[uuid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

// --- items ---

type storedItem struct {
	seq  int
	item models.Item
}

// fakeItemsRepo is an in-memory item store. Returned items are copies, like
// rows read from a database.
type fakeItemsRepo struct {
	mu    sync.Mutex
	rows  []*storedItem
	clock time.Time

	createErr, findErr, lockErr, deleteErr, sumErr error
	// lostRace makes SoftDelete report that another caller got there first.
	lostRace bool
	deleted  []string
}

func newFakeItems() *fakeItemsRepo {
	return &fakeItemsRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeItemsRepo) add(userUUID, content, contentType string) *models.Item {
	it, err := f.Create(context.Background(), &models.Item{UserUUID: userUUID, Content: content, ContentType: contentType})
	if err != nil {
		panic(err)
	}
	return it
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	seq := len(f.rows) + 1
	if item.UUID == "" {
		item.UUID = fmt.Sprintf("item-%04d", seq)
	}
	f.clock = f.clock.Add(time.Second)
	item.CreatedAt, item.UpdatedAt = f.clock, f.clock
	f.rows = append(f.rows, &storedItem{seq: seq, item: *item})
	out := *item
	return &out, nil
}

func (f *fakeItemsRepo) active(userUUID, contentType string) []*storedItem {
	var out []*storedItem
	for _, r := range f.rows {
		if r.item.UserUUID == userUUID && !r.item.Deleted && (contentType == "" || r.item.ContentType == contentType) {
			out = append(out, r)
		}
	}
	return out
}

func copies(rows []*storedItem) []*models.Item {
	out := make([]*models.Item, 0, len(rows))
	for _, r := range rows {
		it := r.item
		out = append(out, &it)
	}
	return out
}

func (f *fakeItemsRepo) FindActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return copies(f.active(userUUID, contentType)), nil
}

func (f *fakeItemsRepo) LockActive(ctx context.Context, userUUID, contentType string) ([]*models.Item, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.active(userUUID, contentType)
	slices.SortFunc(rows, func(a, b *storedItem) int {
		if c := b.item.CreatedAt.Compare(a.item.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	return copies(rows), nil
}

func (f *fakeItemsRepo) SoftDelete(ctx context.Context, itemUUID string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if f.lostRace {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.item.UUID == itemUUID && !r.item.Deleted {
			r.item.Deleted = true
			f.deleted = append(f.deleted, itemUUID)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeItemsRepo) SumContentLength(ctx context.Context, userUUID string) (int64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, r := range f.active(userUUID, "") {
		total += int64(r.item.Size())
	}
	return total, nil
}

func (f *fakeItemsRepo) isDeleted(uuid string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.item.UUID == uuid {
			return r.item.Deleted
		}
	}
	return false
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	i *fakeItemsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Items(db dbx.DBTX) items.Repository         { return m.i }

const testUserUUID = "0c2b6f1e-6c4a-4e53-9d0b-0d8f64a1d001"

func testUser() *models.User {
	return &models.User{
		UUID:          testUserUUID,
		Email:         "sn@testing.com",
		Version:       "004",
		PwNonce:       "somenonce",
		KpOrigination: "registration",
		KpCreated:     1700000000,
	}
}
