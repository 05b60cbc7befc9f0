package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/banners/ingest"
	"storefront/internal/banners/repository"
	"storefront/internal/banners/service"
	"storefront/internal/banners/validator"
	"storefront/pkg/config"
	"storefront/pkg/kafka"
	kafka_config "storefront/pkg/kafka/config"
	kafka_middleware "storefront/pkg/kafka/middleware"
)

const ServiceName = "banner-ingest"

func main() {
	cfg := config.Load(ServiceName)
	kafkaCfg := kafka_config.Load(cfg.Log)

	cfg.Log.Info("Starting Banner Ingest service")

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	repo := repository.NewMongoBannerRepository(cfg)
	bannerService := service.NewBannerService(repo, repo, validator.NewBannerValidator(), cfg)

	metrics := kafka_middleware.NewMetrics()
	eventMetrics := kafka_middleware.NewMetrics()

	var publisher ingest.Publisher
	if kafkaCfg.BannerEventsTopic != "" {
		producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BannerEventsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()
		producer.Use(kafka_middleware.MetricsProducerMiddleware(eventMetrics))
		if kafkaCfg.EnableMiddleware {
			producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		}
		publisher = producer
	}

	handler := ingest.NewHandler(bannerService, publisher, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.BannerTopic, kafkaCfg.BannerGroupID, kafkaCfg.BannerDLQTopic, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	consumer.Use(kafka_middleware.MetricsConsumerMiddleware(metrics))
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Kafka consumer stopped unexpectedly", "error", err)
	}

	cfg.Log.Info("Shutdown signal received, closing consumer")
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	metrics.Log(cfg.Log, "Banner ingest finished")
	if publisher != nil {
		eventMetrics.Log(cfg.Log, "Banner events published")
	}
}
