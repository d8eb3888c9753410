package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userUUIDKey ctxKey = "userUUID"

// publicMethods can be called without an access token.
var publicMethods = map[string]struct{}{
	pb.FullMethod(pb.MethodPing):      {},
	pb.FullMethod(pb.MethodKeyParams): {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userUUID, err := auth.GetUserUUIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	ctx = context.WithValue(ctx, userUUIDKey, userUUID)

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "request", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}

// userUUIDFromContext returns the caller set by accessTokenInterceptor.
func userUUIDFromContext(ctx context.Context) (string, error) {
	v, ok := ctx.Value(userUUIDKey).(string)
	if !ok || v == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return v, nil
}
