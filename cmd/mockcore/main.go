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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Dedezuli/mocha-API-sub002/internal/mockcore"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/httpserver"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/kafka"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/logger"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/metrics"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/redis"
)

const otpTTL = 5 * time.Minute

// main wires the fake new-core backend: optional Redis for OTP codes, optional
// Kafka for legacy sync events, and the HTTP server lifecycle.
func main() {
	cfg, err := config.MockCoreFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []mockcore.Option{
		mockcore.WithLogger(log),
		mockcore.WithMetrics(metrics.New(reg)),
		mockcore.WithGatherer(reg),
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, mockcore.WithOTPStore(mockcore.NewRedisOTPStore(redisClient, otpTTL)))
		log.Info("otp codes shared through redis")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.SyncTopic, 1); err != nil {
			log.Error("failed to ensure sync topic", "topic", cfg.Kafka.SyncTopic, "error", err)
			os.Exit(1)
		}
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		opts = append(opts, mockcore.WithPublisher(mockcore.NewKafkaPublisher(producer, cfg.Kafka.SyncTopic)))
		log.Info("publishing sync events", "topic", cfg.Kafka.SyncTopic)
	}

	srv := httpserver.New(cfg.Addr, mockcore.New(cfg, opts...).Handler())

	go func() {
		log.Info("starting mockcore", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
