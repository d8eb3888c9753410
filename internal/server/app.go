// Package server wires configuration, storage, services and the gRPC
// transport together and runs them until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/backup"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

// seams for tests
var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	server      *gs.GRPCServer
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	storage, err := newStorage(c)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	svc := gs.Services{
		Accounts:  services.NewAccountService(db, rm, c, logger),
		Data:      services.NewDataService(db, rm, logger),
		Integrity: services.NewIntegrityService(db, rm, logger),
		Backups:   services.NewBackupService(db, rm, storage, logger),
		Features:  services.NewFeatureService(db, rm, logger),
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		server:      gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey),
	}, nil
}

func newStorage(c *config.Config) (backup.Storage, error) {
	switch c.BackupStorage {
	case config.StorageLocal, "":
		return backup.NewLocalStorage(c.BackupDir), nil
	case config.StorageS3:
		return backup.NewS3Storage(backup.S3Config{
			Region:       c.S3Region,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			PresignTTL:   c.S3PresignTTL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backup storage %q", c.BackupStorage)
	}
}

// IssueToken returns an access token for the account registered under email.
func (app *App) IssueToken(ctx context.Context, email string) (string, error) {
	u, err := app.repomanager.Users(app.db).GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("error looking up %s: %w", email, err)
	}
	return auth.GenerateToken(u.UUID, []byte(app.config.SecretKey), app.config.AccessTokenValidityDuration)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
}

func (app *App) Close() {
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "closing db", "error", err)
	}
}
