package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"librarium/internal/audit"
	"librarium/internal/config"
	"librarium/internal/library"
	"librarium/internal/server"
	"librarium/internal/storage"
	"librarium/internal/storage/pg"
	"librarium/internal/storage/stubs"
	"librarium/internal/validate"
)

// App represents the application
type App struct {
	config   *config.Config
	logger   *zap.Logger
	pgStore  *pg.Store
	recorder audit.Recorder
	server   *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting librarium")

	stores, err := app.initStores()
	if err != nil {
		return nil, err
	}

	recorder, err := app.initAudit()
	if err != nil {
		return nil, err
	}

	oracle := validate.NewClient(cfg.NinjasAPIKey)
	svc := library.NewService(stores, oracle, recorder, logger)

	mux := http.NewServeMux()
	server.New(svc, logger).RegisterRoutes(mux)

	app.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return app, nil
}

// initStores connects the document store, or uses the in-memory stubs when
// USE_MOCK_DB is set.
func (a *App) initStores() (storage.Stores, error) {
	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		return stubs.NewStores(), nil
	}

	a.logger.Info("Connecting to Postgres")
	store, err := pg.Connect(context.Background(), a.config.DatabaseURL)
	if err != nil {
		return storage.Stores{}, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	a.pgStore = store
	return store.Stores(), nil
}

// initAudit sets up the ClickHouse audit trail when configured.
func (a *App) initAudit() (audit.Recorder, error) {
	if a.config.ClickHouseAddr == "" {
		a.recorder = audit.Nop{}
		return a.recorder, nil
	}

	a.logger.Info("Connecting to ClickHouse audit trail",
		zap.String("addr", a.config.ClickHouseAddr),
		zap.String("database", a.config.ClickHouseDatabase),
	)
	recorder, err := audit.NewClickHouseRecorder(
		a.config.ClickHouseAddr,
		a.config.ClickHouseDatabase,
		a.config.ClickHouseUser,
		a.config.ClickHousePassword,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect audit trail: %w", err)
	}
	if err := recorder.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	a.recorder = recorder
	return recorder, nil
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-sigChan

	a.logger.Info("Shutting down")
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := a.recorder.Close(); err != nil {
		a.logger.Error("Error closing audit trail", zap.Error(err))
	}

	if a.pgStore != nil {
		a.pgStore.Close()
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
