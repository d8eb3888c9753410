// Package grpc exposes the account services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/keyparams"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"google.golang.org/grpc"
)

type AccountService interface {
	KeyParams(ctx context.Context, email string, extended bool) (keyparams.Params, error)
	Profile(ctx context.Context, userUUID string) (models.PublicUser, error)
}

type DataService interface {
	CreateItem(ctx context.Context, userUUID, content, contentType string) (*models.Item, error)
	TotalDataSize(ctx context.Context, userUUID string) (string, int64, error)
	ItemsBySize(ctx context.Context, userUUID string) ([]*models.Item, error)
}

type IntegrityService interface {
	ComputeDataSignature(ctx context.Context, userUUID string) (string, error)
}

type BackupService interface {
	DownloadBackup(ctx context.Context, userUUID string) (string, error)
}

type FeatureService interface {
	DisableMFA(ctx context.Context, userUUID string) (bool, error)
	DisableEmailBackups(ctx context.Context, userUUID string) (bool, error)
}

// Services bundles the application services the server dispatches to.
type Services struct {
	Accounts  AccountService
	Data      DataService
	Integrity IntegrityService
	Backups   BackupService
	Features  FeatureService
}

type GRPCServer struct {
	pb.UnimplementedAccountServiceServer
	address   string
	services  Services
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		services:  svc,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	pb.RegisterAccountServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
