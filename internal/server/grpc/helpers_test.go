package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const (
	testSecret   = "secret"
	testUserUUID = "0c2b6f1e-6c4a-4e53-9d0b-0d8f64a1d001"
)

// fakeServices implements every service interface; err, when set, is
// returned by all of them.
type fakeServices struct {
	err error

	params    keyparams.Params
	lastEmail string
	lastExt   bool
	lastUser  string
	created   []*models.Item
	items     []*models.Item
	disabled  bool
	location  string
	signature string
}

func (f *fakeServices) KeyParams(ctx context.Context, email string, extended bool) (keyparams.Params, error) {
	f.lastEmail, f.lastExt = email, extended
	return f.params, f.err
}

func (f *fakeServices) Profile(ctx context.Context, userUUID string) (models.PublicUser, error) {
	f.lastUser = userUUID
	if f.err != nil {
		return models.PublicUser{}, f.err
	}
	return models.PublicUser{UUID: userUUID, Email: "sn@testing.com"}, nil
}

func (f *fakeServices) CreateItem(ctx context.Context, userUUID, content, contentType string) (*models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	it := &models.Item{UUID: "item-1", UserUUID: userUUID, Content: content, ContentType: contentType}
	f.created = append(f.created, it)
	return it, nil
}

func (f *fakeServices) TotalDataSize(ctx context.Context, userUUID string) (string, int64, error) {
	return "0.06MB", 65536, f.err
}

func (f *fakeServices) ItemsBySize(ctx context.Context, userUUID string) ([]*models.Item, error) {
	return f.items, f.err
}

func (f *fakeServices) ComputeDataSignature(ctx context.Context, userUUID string) (string, error) {
	return f.signature, f.err
}

func (f *fakeServices) DownloadBackup(ctx context.Context, userUUID string) (string, error) {
	return f.location, f.err
}

func (f *fakeServices) DisableMFA(ctx context.Context, userUUID string) (bool, error) {
	f.lastUser = userUUID
	return f.disabled, f.err
}

func (f *fakeServices) DisableEmailBackups(ctx context.Context, userUUID string) (bool, error) {
	f.lastUser = userUUID
	return f.disabled, f.err
}

func newTestServer(f *fakeServices) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, Services{
		Accounts: f, Data: f, Integrity: f, Backups: f, Features: f,
	}, testSecret)
}

// authed returns a context as seen by handlers after the token interceptor.
func authed() context.Context {
	return context.WithValue(context.Background(), userUUIDKey, testUserUUID)
}

func tokenCtx(t *testing.T, userUUID string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(userUUID, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

// startBufconn serves s over an in-memory listener and returns a client.
func startBufconn(t *testing.T, s *GRPCServer) pb.AccountServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return pb.NewAccountServiceClient(conn)
}
