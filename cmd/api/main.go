// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/domain/outbox"
	"github.com/your-org/bagstore/internal/infrastructure/database/postgres"
	"github.com/your-org/bagstore/internal/infrastructure/database/redis"
	"github.com/your-org/bagstore/internal/infrastructure/messaging/kafka"
	"github.com/your-org/bagstore/internal/interfaces/http"
	"github.com/your-org/bagstore/internal/pkg/logger"
	"github.com/your-org/bagstore/internal/pkg/metrics"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting")

	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
	}

	m := metrics.New()
	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), log, m)

	ctx, cancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	if cfg.KafkaEnabled() {
		startMessaging(ctx, &workers, cfg, db.GetDB(), log, m)
	} else {
		log.Info("Kafka brokers not configured, order events stay in the outbox")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	cancel()
	workers.Wait()

	log.Info("Server shutdown completed")
}

// startMessaging runs the outbox relay and the fulfillment consumer until ctx
// is cancelled
func startMessaging(ctx context.Context, workers *sync.WaitGroup, cfg *config.Config, db *gorm.DB, log *logrus.Logger, m *metrics.Metrics) {
	client := kafka.NewClient(cfg.Kafka.Brokers)

	publisher := kafka.NewPublisher(client.NewWriter())
	relay := outbox.NewRelay(db, publisher, log, m, cfg.Kafka.OutboxInterval, cfg.Kafka.OutboxBatchSize)

	consumer := kafka.NewFulfillmentConsumer(
		client.NewReader(cfg.Kafka.FulfillmentTopic, cfg.Kafka.GroupID),
		order.NewService(db), log, m,
	)

	workers.Add(2)
	go func() {
		defer workers.Done()
		relay.Run(ctx)
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Kafka writer")
		}
	}()
	go func() {
		defer workers.Done()
		consumer.Run(ctx)
		if err := consumer.Close(); err != nil {
			log.WithError(err).Warn("Failed to close Kafka reader")
		}
	}()

	log.WithField("brokers", client.Brokers).Info("Order messaging started")
}
