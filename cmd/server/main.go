package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/config"
	"github.com/tarekelsergany/gold-ecommerce/internal/infra"
	"github.com/tarekelsergany/gold-ecommerce/internal/repository"
	"github.com/tarekelsergany/gold-ecommerce/internal/router"
	"github.com/tarekelsergany/gold-ecommerce/internal/service"
	"github.com/tarekelsergany/gold-ecommerce/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.ConnectWithRetry(cfg.DatabaseURL, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer func() {
		if err := infra.Close(db); err != nil {
			log.Warn().Err(err).Msg("closing store connection")
		}
	}()

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis connection")
		}
	}()

	// Background price-consistency audit. Wired here (composition root) so the
	// cron shares the exact service the HTTP handlers use.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	goldPriceRepo := repository.NewGoldPriceRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	productSvc := service.NewProductService(productRepo, goldPriceRepo, historyRepo)
	worker.NewAuditCron(productSvc, cfg.AuditInterval, cfg.AuditRepair).Start(ctx)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("gold-ecommerce backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
