package app

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/health"
	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderflow/internal/metrics"
	"github.com/vladislavdragonenkov/orderflow/internal/notification"
	"github.com/vladislavdragonenkov/orderflow/internal/service/order"
	"github.com/vladislavdragonenkov/orderflow/internal/service/validation"
	"github.com/vladislavdragonenkov/orderflow/internal/version"
)

// Dependencies содержит все зависимости пайплайна. Собирается один раз до обработки заказов.
type Dependencies struct {
	Validator    domain.OrderValidator
	Repo         domain.OrderRepository
	TimelineRepo domain.TimelineRepository
	Notifier     domain.Notifier
	Metrics      *metrics.OrderMetrics
	Health       *health.Handler
	Logger       *log.Entry

	storage  *storageBackend
	producer *kafka.Producer
}

// NewDependencies создаёт хранилище, notifier, метрики и health checks по конфигурации.
// Подтверждения в консоль пишутся в out.
func NewDependencies(ctx context.Context, cfg Config, out io.Writer, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	backend, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	notifiers := notification.Fanout{notification.NewConsole(out)}
	producer := initKafkaProducer(cfg.Brokers(), logger)
	if producer != nil {
		notifiers = append(notifiers, notification.NewRetrying(
			notification.NewKafka(producer, cfg.KafkaTopic),
			notification.DefaultRetryConfig(),
			logger.WithField("component", "kafka-notifier"),
		))
	}

	healthHandler := health.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", health.CheckerFunc(backend.ping))

	var notifier domain.Notifier = notifiers
	if len(notifiers) == 1 {
		notifier = notifiers[0]
	}

	return &Dependencies{
		Validator:    validation.NewAmountValidator(),
		Repo:         backend.orders,
		TimelineRepo: backend.timeline,
		Notifier:     notifier,
		Metrics:      metrics.NewOrderMetrics(),
		Health:       healthHandler,
		Logger:       logger,
		storage:      backend,
		producer:     producer,
	}, nil
}

// OrderService собирает координатор из зависимостей.
func (d *Dependencies) OrderService() *order.Service {
	return order.NewService(
		d.Validator,
		d.Repo,
		d.Notifier,
		order.WithLogger(d.Logger.WithField("layer", "service")),
		order.WithMetrics(d.Metrics),
		order.WithTimeline(d.TimelineRepo),
	)
}

// Close освобождает внешние ресурсы: Kafka producer и соединение с хранилищем.
func (d *Dependencies) Close() {
	closeKafka(d.producer, d.Logger)
	if d.storage == nil || d.storage.close == nil {
		return
	}
	if err := d.storage.close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close storage")
	}
}
