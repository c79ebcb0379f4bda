package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/portaudit/checklist-scoring/internal/config"
	handler "github.com/portaudit/checklist-scoring/internal/grpc"
	"github.com/portaudit/checklist-scoring/internal/repository"
	"github.com/portaudit/checklist-scoring/internal/service"
	"github.com/portaudit/checklist-scoring/pkg/cache"
	dbbuilder "github.com/portaudit/checklist-scoring/pkg/database"
	grpcsrv "github.com/portaudit/checklist-scoring/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
}

// OpenStore opens the checklist database and applies the schema.
func OpenStore(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == "sqlite3" && !strings.HasPrefix(cfg.DBPath, ":memory:") && !strings.HasPrefix(cfg.DBPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	if err := dbbuilder.Migrate(ctx, db, repository.Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}
	return db, nil
}

// NewApp wires storage, cache, service and transport. Extra server options
// are applied after the configured ones.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, serverOpts ...grpcsrv.Option) (*App, error) {
	dbPool, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	a := &App{logger: logger, dbPool: dbPool}

	var cacher handler.Cacher
	if cfg.CacheEnabled() {
		a.cache, err = cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
		)
		if err != nil {
			_ = dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacher = a.cache
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Cache disabled, reads go to the database")
	}

	checklistRepo := repository.NewChecklistRepository(dbPool)
	scoringService := service.NewScoringService(checklistRepo, logger)
	grpcHandlers := handler.NewGRPCHandlers(scoringService, cacher, logger, cfg.CacheTTL)

	opts := append([]grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
		grpcsrv.WithRecovery(true),
	}, serverOpts...)

	a.grpcServer, err = grpcsrv.New(opts...)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	a.grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterChecklistScoringServer(s, grpcHandlers)
	})

	return a, nil
}

// Run starts the server and blocks until ctx is done, a shutdown signal
// arrives or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")
	a.grpcServer.Start()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-a.grpcServer.Errors():
	}

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warn("shutdown completed but deadline exceeded")
		} else {
			a.logger.Error("gRPC shutdown error", zap.Error(err))
		}
	}
	a.closeStores()

	_ = a.logger.Sync()
	return runErr
}

func (a *App) closeStores() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
}

// Addr is the address the gRPC server listens on.
func (a *App) Addr() string {
	return a.grpcServer.Addr().String()
}
