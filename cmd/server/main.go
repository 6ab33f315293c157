package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoptrack/internal/config"
	"shoptrack/internal/infra"
	"shoptrack/internal/repository"
	"shoptrack/internal/router"
	"shoptrack/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title        ShopTrack API
// @version      1.0
// @description  Inventory and sales tracking with profit analytics.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	receipts, err := infra.NewReceiptWriter(cfg.ReceiptStoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("receipt storage")
	}
	mailer := infra.NewMailer(cfg)

	dispatcher := worker.NewDispatcher(rdb)
	saleRepo := repository.NewSaleRepository(db)

	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.QueueReceipts, worker.NewReceiptWorker(saleRepo, receipts, mailer).Handle)
	pool.Register(worker.QueueStockAlerts, worker.NewStockAlertWorker(mailer, cfg.StockAlertEmail).Handle)

	poolCtx, stopPool := context.WithCancel(context.Background())
	pool.Start(poolCtx)

	engine := router.New(cfg, db, rdb, dispatcher)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopPool()
	pool.Wait()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bye")
}
