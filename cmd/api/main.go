package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platformteam/auth-service/internal/api"
	"github.com/platformteam/auth-service/internal/core/service"
	mongodb "github.com/platformteam/auth-service/internal/infrastructure/db/mongo"
	postgresdb "github.com/platformteam/auth-service/internal/infrastructure/db/postgres"
	redisdb "github.com/platformteam/auth-service/internal/infrastructure/db/redis"
	"github.com/platformteam/auth-service/internal/infrastructure/queue"
	"github.com/platformteam/auth-service/internal/pkg/config"
	"github.com/platformteam/auth-service/pkg/logger"
)

const auditWorkers = 4

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	defer initCancel()

	// --- Postgres (credential store) ---
	db, err := postgresdb.Connect(initCtx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init failed")
	}
	// Registration cannot work without the default role; refuse to start
	// rather than fail every request later.
	if err := postgresdb.SeedRoles(initCtx, db); err != nil {
		log.Fatal().Err(err).Msg("role seeding failed")
	}

	// --- Redis (rotated-token replay guard) ---
	rdb, err := redisdb.Connect(initCtx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}

	// --- MongoDB (audit trail) ---
	mongoClient, mdb, err := mongodb.Connect(initCtx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo init failed")
	}

	// --- Audit pipeline ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(mdb), log)
	dispatcher := queue.NewDispatcher(auditWorkers, auditService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, mdb, cfg, dispatcher, log)
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel() // stop audit workers
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
