package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/notifier"
	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/services"
)

// notifier turns activity events from Kafka into inbox notifications.
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		slog.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	dbLogHandler := logging.NewDBHandler(database.DB)
	logging.Setup(cfg.LogLevel, dbLogHandler)

	reader := events.NewKafkaReader(events.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := notifier.New(reader, services.NewNotificationService(database.DB), cfg.NotifierWorkers)
	w.Run(ctx)

	if err := reader.Close(); err != nil {
		slog.Error("kafka reader close error", "error", err)
	}
	dbLogHandler.Stop()
	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}
}
