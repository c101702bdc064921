// Package server initializes and runs the backend application: it opens the
// database, applies migrations, wires repositories, services and the HTTP
// API together, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/TrisanthBST/speech-to-text-backend/internal/logging"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/audiostore"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/config"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/httpapi"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/repomanager"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/services"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/transcriber"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us := services.NewUserService(db, m, cfg)
	ts := services.NewTranscriptService(db, m, audiostore.NewS3Store(cfg), transcriber.FromConfig(cfg))

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		httpServer: httpapi.NewServer(cfg, logger, db, us, ts),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
