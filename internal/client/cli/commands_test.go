package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeys struct {
	services.KeyService

	params map[string]any
	src    services.Source
	err    error

	derivedPW []byte
	keys      *cryptox.Keys

	cached    []string
	forgotten string
}

func (f *fakeKeys) Params(ctx context.Context, email string, extended, refresh bool) (map[string]any, services.Source, error) {
	return f.params, f.src, f.err
}

func (f *fakeKeys) Derive(ctx context.Context, email string, password []byte) (*cryptox.Keys, error) {
	f.derivedPW = append([]byte(nil), password...)
	if f.err != nil {
		return nil, f.err
	}
	return f.keys, nil
}

func (f *fakeKeys) Cached(ctx context.Context) ([]string, error) { return f.cached, f.err }

func (f *fakeKeys) Forget(ctx context.Context, email string) error {
	f.forgotten = email
	return f.err
}

type fakeAccount struct {
	services.AccountService

	err      error
	items    []models.ItemInfo
	location string
	saved    string
	disabled bool
	noteText string
	closed   bool
}

func (f *fakeAccount) Ping(ctx context.Context) error { return f.err }
func (f *fakeAccount) Whoami(ctx context.Context) (*models.Profile, error) {
	return &models.Profile{UUID: "u-1", Email: "a@b.c"}, f.err
}
func (f *fakeAccount) Size(ctx context.Context) (*models.DataSize, error) {
	return &models.DataSize{Label: "0.06MB", Bytes: 65536}, f.err
}
func (f *fakeAccount) Rank(ctx context.Context) ([]models.ItemInfo, error) { return f.items, f.err }
func (f *fakeAccount) Signature(ctx context.Context) (string, error)      { return "abc123", f.err }
func (f *fakeAccount) Backup(ctx context.Context, dir string) (string, string, error) {
	return f.location, f.saved, f.err
}
func (f *fakeAccount) DisableMFA(ctx context.Context) (bool, error) { return f.disabled, f.err }
func (f *fakeAccount) DisableEmailBackups(ctx context.Context) (bool, error) {
	return f.disabled, f.err
}
func (f *fakeAccount) EnableMFA(ctx context.Context, allow bool) (string, error) {
	return "i-mfa", f.err
}
func (f *fakeAccount) EnableEmailBackups(ctx context.Context) (string, error) {
	return "i-ext", f.err
}
func (f *fakeAccount) AddNote(ctx context.Context, keys *cryptox.Keys, text string) (string, error) {
	f.noteText = text
	return "i-note", f.err
}
func (f *fakeAccount) Close() error {
	f.closed = true
	return nil
}

func newTestApp(keys *fakeKeys, acc *fakeAccount, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:  &config.Config{ServerEndpointAddr: "127.0.0.1:50051"},
		keys:    keys,
		account: acc,
		reader:  rdr(input),
		out:     out,
	}, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestApp_Params_SortedAndNumbersPlain(t *testing.T) {
	keys := &fakeKeys{
		params: map[string]any{"version": "003", "pw_cost": float64(110000), "identifier": "a@b.c", "created": float64(1700000000)},
		src:    services.SourceServer,
	}
	a, out := newTestApp(keys, &fakeAccount{}, "")

	require.NoError(t, a.Params(context.Background(), "a@b.c", true, false))

	want := "key parameters for a@b.c (server):\n" +
		"  created: 1700000000\n" +
		"  identifier: a@b.c\n" +
		"  pw_cost: 110000\n" +
		"  version: 003\n"
	assert.Equal(t, want, out.String())
}

func TestApp_Derive(t *testing.T) {
	stubPassword(t, "pw")
	keys := &fakeKeys{keys: &cryptox.Keys{ServerPassword: []byte{0xab, 0xcd}, MasterKey: []byte{1}}}
	a, out := newTestApp(keys, &fakeAccount{}, "")

	require.NoError(t, a.Derive(context.Background(), "a@b.c"))
	assert.Equal(t, []byte("pw"), keys.derivedPW)
	assert.True(t, strings.HasSuffix(out.String(), "abcd\n"), out.String())
	assert.Equal(t, []byte{0, 0}, keys.keys.ServerPassword, "keys wiped after use")
}

func TestApp_Note(t *testing.T) {
	stubPassword(t, "pw")
	acc := &fakeAccount{}
	keys := &fakeKeys{keys: &cryptox.Keys{MasterKey: make([]byte, 32)}}
	a, out := newTestApp(keys, acc, "line one\nline two\n\n")

	require.NoError(t, a.Note(context.Background(), "a@b.c"))
	assert.Equal(t, "line one\nline two", acc.noteText)
	assert.Contains(t, out.String(), "note i-note stored")

	a, _ = newTestApp(keys, acc, "\n")
	require.Error(t, a.Note(context.Background(), "a@b.c"))
}

func TestApp_Rank(t *testing.T) {
	acc := &fakeAccount{items: []models.ItemInfo{
		{UUID: "b", ContentType: "Note", Size: 20},
		{UUID: "a", ContentType: "SF|MFA", Size: 10},
	}}
	a, out := newTestApp(&fakeKeys{}, acc, "")

	require.NoError(t, a.Rank(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "UUID"))
	assert.True(t, strings.HasPrefix(lines[1], "b "))
	assert.True(t, strings.HasSuffix(lines[2], "10"))

	a, out = newTestApp(&fakeKeys{}, &fakeAccount{}, "")
	require.NoError(t, a.Rank(context.Background()))
	assert.Equal(t, "no items\n", out.String())
}

func TestApp_Backup(t *testing.T) {
	a, out := newTestApp(&fakeKeys{}, &fakeAccount{location: "tmp/a@b.c-restore.txt"}, "")
	require.NoError(t, a.Backup(context.Background(), "."))
	assert.Equal(t, "backup written to tmp/a@b.c-restore.txt\n", out.String())

	a, out = newTestApp(&fakeKeys{}, &fakeAccount{location: "https://x", saved: "./a@b.c-restore.txt"}, "")
	require.NoError(t, a.Backup(context.Background(), "."))
	assert.Equal(t, "backup downloaded to ./a@b.c-restore.txt\n", out.String())
}

func TestApp_Features(t *testing.T) {
	a, out := newTestApp(&fakeKeys{}, &fakeAccount{disabled: true}, "")
	require.NoError(t, a.DisableMFA(context.Background()))
	require.NoError(t, a.DisableEmailBackups(context.Background()))
	require.NoError(t, a.EnableMFA(context.Background(), true))
	require.NoError(t, a.EnableEmailBackups(context.Background()))
	assert.Equal(t, "mfa disabled\nemail backups disabled\nmfa item i-mfa created\nemail backups item i-ext created\n", out.String())

	a, out = newTestApp(&fakeKeys{}, &fakeAccount{disabled: false}, "")
	require.NoError(t, a.DisableMFA(context.Background()))
	assert.Equal(t, "mfa not disabled\n", out.String())
}

func TestApp_SimpleCommands(t *testing.T) {
	keys := &fakeKeys{cached: []string{"a@b.c", "z@b.c"}}
	a, out := newTestApp(keys, &fakeAccount{}, "")
	ctx := context.Background()

	require.NoError(t, a.Whoami(ctx))
	require.NoError(t, a.Ping(ctx))
	require.NoError(t, a.Size(ctx))
	require.NoError(t, a.Signature(ctx))
	require.NoError(t, a.Cached(ctx))
	require.NoError(t, a.Forget(ctx, "a@b.c"))

	assert.Equal(t, "a@b.c (u-1)\nOK\n0.06MB (65536 bytes)\nabc123\na@b.c\nz@b.c\nforgot a@b.c\n", out.String())
	assert.Equal(t, "a@b.c", keys.forgotten)
}

func TestApp_ErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	a, _ := newTestApp(&fakeKeys{err: boom}, &fakeAccount{err: boom}, "")
	ctx := context.Background()

	for name, fn := range map[string]func() error{
		"params":    func() error { return a.Params(ctx, "a@b.c", false, false) },
		"whoami":    func() error { return a.Whoami(ctx) },
		"size":      func() error { return a.Size(ctx) },
		"rank":      func() error { return a.Rank(ctx) },
		"signature": func() error { return a.Signature(ctx) },
		"backup":    func() error { return a.Backup(ctx, ".") },
		"disable":   func() error { return a.DisableMFA(ctx) },
		"cached":    func() error { return a.Cached(ctx) },
	} {
		assert.ErrorIs(t, fn(), boom, name)
	}
}

func TestApp_RunOneShot(t *testing.T) {
	a, out := newTestApp(&fakeKeys{}, &fakeAccount{}, "")
	require.NoError(t, a.Run(context.Background(), []string{"signature"}))
	assert.Equal(t, "abc123\n", out.String())

	err := a.Run(context.Background(), []string{"nope"})
	require.Error(t, err)
}

func TestApp_RunInteractive(t *testing.T) {
	capturePrint(t)
	a, out := newTestApp(&fakeKeys{}, &fakeAccount{}, "ping\nexit\n")
	require.NoError(t, a.Run(context.Background(), nil))
	assert.Equal(t, "OK\n", out.String())
}

func TestApp_CloseRunsEveryCloser(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	a := &App{closers: []func() error{
		func() error { order = append(order, "client"); return boom },
		func() error { order = append(order, "cache"); return nil },
	}}

	assert.ErrorIs(t, a.Close(), boom)
	assert.Equal(t, []string{"client", "cache"}, order)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1700000000", formatValue(float64(1700000000)))
	assert.Equal(t, "1.5", formatValue(1.5))
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, "x", formatValue("x"))
}
