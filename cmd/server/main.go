package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/gala-seating/internal/cache"
	"github.com/iliyamo/gala-seating/internal/config"
	"github.com/iliyamo/gala-seating/internal/database"
	"github.com/iliyamo/gala-seating/internal/handler"
	"github.com/iliyamo/gala-seating/internal/logger"
	"github.com/iliyamo/gala-seating/internal/middleware"
	"github.com/iliyamo/gala-seating/internal/queue"
	"github.com/iliyamo/gala-seating/internal/repository"
	"github.com/iliyamo/gala-seating/internal/router"
	"github.com/iliyamo/gala-seating/internal/seating"
	"github.com/iliyamo/gala-seating/internal/service"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(config.LoadLogConfig(), "gala-seating")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	regs := repository.NewRegistrationRepo(db)
	settings := repository.NewSettingsRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	seatCfg := config.LoadSeatingConfig()
	opts := seating.Options{
		Concurrency: seatCfg.CommitConcurrency,
		Policy:      seating.ParsePolicy(seatCfg.OversizedPolicy),
		Publisher:   service.NewAuditPublisher(cfg.AMQPURL, seatCfg.AuditQueue, log),
		Logger:      log,
	}

	// Redis is optional: without it the snapshot and the rate limiter
	// are disabled and every read goes to MySQL.
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
		if snapCfg := config.LoadSnapshotConfig(); snapCfg.Enabled {
			opts.Snapshot = cache.NewRegistrationSnapshot(rdb, snapCfg)
		}
	} else {
		log.Warn("redis unavailable; snapshot cache and rate limiting disabled")
	}
	svc := seating.NewService(regs, settings, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := queue.StartSeatingAuditConsumer(ctx, cfg.AMQPURL, seatCfg.AuditQueue, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterAdmin(e, router.Admin{
		Registrations: handler.NewRegistrationHandler(regs),
		Settings:      handler.NewSettingsHandler(settings),
		Seating:       handler.NewSeatingHandler(svc),
	}, cfg.JWTSecret, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
