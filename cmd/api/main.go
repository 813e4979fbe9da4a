package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/casedesk/casedesk/internal/app"
	"github.com/casedesk/casedesk/internal/auth"
	"github.com/casedesk/casedesk/internal/authz"
	"github.com/casedesk/casedesk/internal/config"
	httpserver "github.com/casedesk/casedesk/internal/http"
	"github.com/casedesk/casedesk/internal/repository"
	"github.com/casedesk/casedesk/internal/seed"
	"github.com/casedesk/casedesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to ping redis", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	caseRepo := repository.NewCaseRepository(pool)
	grantRepo := repository.NewGrantRepository(pool)
	requestRepo := repository.NewAccessRequestRepository(pool)

	if err := seed.BootstrapAdmin(ctx, userRepo, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	engine := authz.NewEngine(caseRepo, grantRepo, logger)

	userService := service.NewUserService(userRepo, logger)
	caseService := service.NewCaseService(caseRepo, userRepo, engine, logger)
	grantService := service.NewGrantService(grantRepo, userRepo, caseRepo, logger)
	requestService := service.NewAccessRequestService(requestRepo, grantRepo, caseRepo, engine, logger)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	sessions := auth.NewSessionStore(redisClient, cfg.TokenTTL)
	resolver := auth.NewResolver(tokens, sessions, userRepo, logger)
	guard := auth.NewGuard(resolver, engine)

	router := httpserver.NewRouter(cfg.Environment, httpserver.Services{
		Users:    userService,
		Cases:    caseService,
		Grants:   grantService,
		Requests: requestService,
		Resolver: resolver,
		Guard:    guard,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
}
