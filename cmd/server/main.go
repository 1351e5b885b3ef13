package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/internal/api"
	"github.com/yakoovad/flowcraft/internal/auth"
	"github.com/yakoovad/flowcraft/internal/cache"
	"github.com/yakoovad/flowcraft/internal/config"
	"github.com/yakoovad/flowcraft/internal/db"
	"github.com/yakoovad/flowcraft/internal/repository"
	"github.com/yakoovad/flowcraft/internal/service"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err = cfg.ValidateServer(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("starting application")

	pool, err := db.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	log.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	team := service.NewTeamService(transactor).
		WithWorkspaceRepo(repository.NewPgxWorkspaceRepository(pool)).
		WithMemberRepo(repository.NewPgxMemberRepository(pool)).
		WithProjectRepo(repository.NewPgxProjectRepository(pool))

	checks := []health.Config{api.PostgresCheck(pool)}

	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(cfg.Redis.Addr)
		if err != nil {
			log.Fatal("failed to configure redis", zap.Error(err))
		}
		defer rdb.Close()

		team.WithCache(cache.NewWorkspaceCache(rdb, cfg.Redis.TTL))
		checks = append(checks, api.RedisCheck(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))

		log.Info("workspace cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	}

	healthChecker, err := api.NewHealthChecker(checks...)
	if err != nil {
		log.Fatal("failed to create health checker", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.NewHandler(log).
		WithTeamService(team).
		WithIssuer(auth.NewIssuer(cfg.Auth.TokenSecret)).
		WithHealthChecker(healthChecker).
		RegisterRoutes(e)

	go func() {
		log.Info("server starting", zap.String("addr", cfg.ServerAddr()))
		if err := e.Start(cfg.ServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Duration("timeout", cfg.Server.ShutdownTimeout), zap.Error(err))
	}

	log.Info("server stopped")
}
