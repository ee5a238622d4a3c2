package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	pb "github.com/godilite/diagnostico/api/v1"
	"github.com/godilite/diagnostico/internal/config"
	handler "github.com/godilite/diagnostico/internal/grpc"
	"github.com/godilite/diagnostico/internal/repository"
	"github.com/godilite/diagnostico/internal/service"
	"github.com/godilite/diagnostico/internal/settings"
	"github.com/godilite/diagnostico/pkg/cache"
	dbbuilder "github.com/godilite/diagnostico/pkg/database"
	grpcsrv "github.com/godilite/diagnostico/pkg/grpc/server"
)

// Cache is the store shared by the handler cache and the settings manager.
type Cache interface {
	handler.Cacher
	settings.Store
}

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      Cache
	grpcServer *grpcsrv.Server
}

// OpenDatabase connects to the configured database and applies the schema.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithLogger(logger),
		dbbuilder.WithInit(repository.Migrate),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return db, nil
}

// OpenCache connects to Redis when an address is configured and falls back
// to the in-process cache otherwise.
func OpenCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Cache, error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemory(), nil
	}
	c, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return c, nil
}

// NewDiagnosticService wires the diagnostic service to db using the
// configured scoring engine.
func NewDiagnosticService(cfg *config.Config, db *sql.DB, logger *zap.Logger) (*service.DiagnosticService, error) {
	engine, err := cfg.ScoringEngine()
	if err != nil {
		return nil, err
	}
	return service.NewDiagnosticService(
		repository.NewQuestionRepository(db),
		repository.NewDiagnosticRepository(db),
		engine,
		logger,
	), nil
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := OpenDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	cacheClient, err := OpenCache(ctx, cfg, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	diagnostics, err := NewDiagnosticService(cfg, dbPool, logger)
	if err != nil {
		dbPool.Close()
		cacheClient.Close()
		return nil, err
	}
	followUps := service.NewFollowUpService(repository.NewFollowUpRepository(dbPool), logger)
	cfgService := service.NewSettingsService(settings.NewManager(cacheClient, settings.WithLogger(logger)), logger)

	grpcHandlers := handler.NewGRPCHandlers(diagnostics, followUps, cfgService, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
	)
	if err != nil {
		dbPool.Close()
		cacheClient.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.Register(&pb.ServiceDesc, grpcHandlers)

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// Run starts the application and blocks until ctx is cancelled or a
// shutdown signal is received.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("gRPC shutdown did not complete in time", zap.Error(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")
	_ = a.logger.Sync()
	return nil
}
