// Package server initializes and runs the Antivity API server. It opens the
// database, runs migrations, wires the services and starts the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/server/config"
	ahttp "github.com/Ayash13/Antivity/internal/server/http"
	"github.com/Ayash13/Antivity/internal/server/judge"
	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
	"github.com/Ayash13/Antivity/internal/server/services"
	"github.com/Ayash13/Antivity/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *ahttp.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	blobs := storage.NewS3Store(cfg)
	checker := judge.New(cfg.GeminiAPIKey, cfg.GeminiModel)

	handler := ahttp.NewHandler(
		services.NewValidationService(checker),
		services.NewUserService(db, rm, cfg),
		services.NewSessionService(db, rm, blobs, logger, cfg),
		services.NewPostService(db, rm),
		services.NewMissionService(db, rm),
		services.NewFollowService(db, rm),
		[]byte(cfg.SecretKey),
		logger,
	)

	server := ahttp.NewServer(cfg.EndpointAddrHTTP, handler, logger)

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(ctx, "closing db", "error", closeErr)
	}

	return err
}
