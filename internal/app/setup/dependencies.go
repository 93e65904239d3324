package setup

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/queue"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config          *config.PaymentConfig
	Logger          *logrus.Logger
	WatermillLogger watermill.LoggerAdapter
	DB              *gorm.DB
	Registry        *prometheus.Registry
	Metrics         *metrics.PaymentMetrics
	PubSub          *queue.PubSub
	Publisher       *kafka.PaymentEventPublisher
	Repositories    *Repositories

	closers []func() error
}

type Repositories struct {
	TxManager         domain.TxManager
	BookingRepo       domain.BookingRepository
	PaymentRepo       domain.PaymentRepository
	WebhookEventRepo  domain.WebhookEventRepository
	OrphanedOrderRepo domain.OrphanedOrderRepository
}

func InitializeDependencies(cfg *config.PaymentConfig) (*Dependencies, error) {
	log := logger.Setup(cfg.Env, cfg.LogConfig.LogLevel, cfg.LogConfig.LogFormat)
	watermillLogger := logger.NewWatermillAdapter(log)

	db, err := postgres.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.PaymentDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.PaymentDB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pubSub, err := queue.NewPubSub(cfg.Queue, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("webhook queue: %w", err)
	}

	port, closePort := initPublisherPort(cfg.Kafka)

	deps := &Dependencies{
		Config:          cfg,
		Logger:          log,
		WatermillLogger: watermillLogger,
		DB:              db,
		Registry:        registry,
		Metrics:         metrics.NewPaymentMetrics(registry),
		PubSub:          pubSub,
		Publisher:       kafka.NewPaymentEventPublisher(port, cfg.Kafka.PaymentTopic, cfg.Kafka.OperatorTopic),
		Repositories: &Repositories{
			TxManager:         repository.NewGormTxManager(db),
			BookingRepo:       repository.NewDefaultBookingRepository(db),
			PaymentRepo:       repository.NewDefaultPaymentRepository(db),
			WebhookEventRepo:  repository.NewDefaultWebhookEventRepository(db),
			OrphanedOrderRepo: repository.NewDefaultOrphanedOrderRepository(db),
		},
	}
	deps.closers = append(deps.closers, pubSub.Close)
	if closePort != nil {
		deps.closers = append(deps.closers, closePort)
	}

	return deps, nil
}

// initPublisherPort falls back to logging the events when no brokers are set.
func initPublisherPort(cfg config.Kafka) (domain.PublisherPort, func() error) {
	if len(cfg.Brokers) == 0 {
		logrus.Warn("kafka brokers are not configured, payment events are only logged")
		return kafka.LogPublisher{}, nil
	}
	publisher := kafka.NewDefaultKafkaPublisher(cfg.Brokers)
	return publisher, publisher.Close
}

// Close releases the queue, the Kafka writer and the database pool.
func (d *Dependencies) Close() error {
	var errs []error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
