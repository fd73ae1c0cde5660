package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatwire/messaging-api/internal/api"
	"github.com/chatwire/messaging-api/internal/core/service"
	"github.com/chatwire/messaging-api/internal/infrastructure/config"
	mongodb "github.com/chatwire/messaging-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatwire/messaging-api/internal/infrastructure/db/redis"
	"github.com/chatwire/messaging-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Chatwire Messaging API
// @version      1.0
// @description  Credential-based authentication, session-token lifecycle, and direct messaging.
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PrivateKeyPath).Msg("failed to read signing key")
	}

	signer, err := service.NewRSATokenSigner(privateKeyPEM, cfg.Issuer, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise token signer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure mongodb indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	e, err := api.NewRouter(db, rdb, signer, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
