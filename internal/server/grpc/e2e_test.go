package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestBufconn_PublicAndProtectedCalls(t *testing.T) {
	f := &fakeServices{
		params:   keyparams.Params{"identifier": "sn@testing.com", "pw_nonce": "n", "version": "004"},
		disabled: true,
	}
	c := startBufconn(t, newTestServer(f))

	out, err := c.Ping(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "OK", out.GetFields()["status"].GetStringValue())

	req, err := structpb.NewStruct(map[string]any{"email": "sn@testing.com"})
	require.NoError(t, err)
	out, err = c.KeyParams(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "004", out.GetFields()["version"].GetStringValue())

	_, err = c.DisableMFA(context.Background(), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	out, err = c.DisableMFA(tokenCtx(t, testUserUUID), nil)
	require.NoError(t, err)
	assert.True(t, out.GetFields()["disabled"].GetBoolValue())
	assert.Equal(t, testUserUUID, f.lastUser)
}
