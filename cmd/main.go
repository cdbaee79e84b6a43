package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vedashop/internal/audit"
	"vedashop/internal/cache"
	"vedashop/internal/config"
	httpapi "vedashop/internal/http"
	"vedashop/internal/notify"
	"vedashop/internal/repository"
	"vedashop/internal/seed"
	"vedashop/internal/service"

	_ "vedashop/docs"
)

// @title Vedashop back-office API
// @version 1.0
// @description Inventory, tags, orders, users and audit log of the herbal store.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	store := repository.NewMemoryStore()
	ordersRepo := repository.NewMemoryOrders(store)
	usersRepo := repository.NewMemoryUsers(store)
	mediaRepo := repository.NewMemoryMedia(store)
	tx := repository.NewMemoryTx(store)

	catalog, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("load seed catalog", "err", err)
		os.Exit(1)
	}
	if err := catalog.Apply(context.Background(), seed.Stores{Products: store, Users: usersRepo, Orders: ordersRepo, Media: mediaRepo}); err != nil {
		logger.Error("apply seed catalog", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditLog := audit.New(cfg.AuditCapacity, logger)

	sinks := notify.Multi{notify.NewLogNotifier(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaNotifyTopic)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		logger.Info("kafka notifications enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaNotifyTopic)
	}

	flags := cache.New(cfg.AlertSessionTTL)
	go flags.Run(ctx, time.Minute)

	inventory := service.NewInventoryService(store, tx, auditLog, sinks, cfg.DefaultReorderPoint)
	srv := httpapi.NewServer(httpapi.Services{
		Products:  service.NewProductService(store, tx, auditLog, sinks),
		Inventory: inventory,
		Tags:      service.NewTagService(store, tx, auditLog, sinks),
		Orders:    service.NewOrderService(store, ordersRepo, tx, auditLog, sinks),
		Users:     service.NewUserService(usersRepo, auditLog, sinks),
		Alerts:    service.NewAlertService(inventory, repository.NewMemorySettings(store), flags, auditLog, sinks, cfg.AlertRecipient),
		Logs:      service.NewLogService(auditLog, sinks),
		Media:     service.NewMediaService(mediaRepo, tx, auditLog, sinks),
		Guard:     service.NewGuard(auditLog),
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
