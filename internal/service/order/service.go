// Package order содержит координатор конвейера: валидация → сохранение → уведомление.
package order

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/metrics"
)

const tracerName = "github.com/vladislavdragonenkov/orderflow/internal/service/order"

// Причина отмены, которая попадает в timeline.
const reasonInvalidAmount = "total amount must be greater than zero"

// Options задаёт необязательные зависимости координатора.
type Options struct {
	Logger   *log.Entry
	Metrics  *metrics.OrderMetrics
	Timeline domain.TimelineRepository
	Tracer   trace.Tracer
	Clock    func() time.Time
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger координатора.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics включает Prometheus-метрики.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithTimeline включает запись событий жизненного цикла.
func WithTimeline(timeline domain.TimelineRepository) Option {
	return func(opts *Options) {
		opts.Timeline = timeline
	}
}

// WithTracer подменяет tracer (по умолчанию берётся из глобального provider).
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *Options) {
		opts.Tracer = tracer
	}
}

// WithClock подменяет источник времени для событий timeline.
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// Service обрабатывает заказы, используя внедрённые валидатор, репозиторий и notifier.
type Service struct {
	validator domain.OrderValidator
	repo      domain.OrderRepository
	notifier  domain.Notifier
	timeline  domain.TimelineRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewService связывает координатор с его зависимостями.
func NewService(
	validator domain.OrderValidator,
	repo domain.OrderRepository,
	notifier domain.Notifier,
	options ...Option,
) *Service {
	var opts Options
	for _, option := range options {
		option(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "order-service")
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		validator: validator,
		repo:      repo,
		notifier:  notifier,
		timeline:  opts.Timeline,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
		now:       opts.Clock,
	}
}

// ProcessOrder проводит заказ через конвейер и меняет его статус.
//
// Для невалидного заказа исход штатный: статус cancelled, ошибка nil, репозиторий и notifier
// не вызываются. Ошибка возвращается только для nil/уже завершённого заказа и при сбое
// хранилища. Ошибка notifier не прерывает обработку.
func (s *Service) ProcessOrder(ctx context.Context, order *domain.Order) error {
	if order == nil {
		s.recordRejected()
		return domain.ErrOrderRequired
	}

	ctx, span := s.tracer.Start(ctx, "order.process", trace.WithAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.String("order.status", string(order.Status)),
	))
	defer span.End()

	logger := s.logger.WithField("order_id", order.ID)

	if order.IsTerminal() {
		logger.WithField("status", order.Status).Warn("order already finalized, skipping")
		s.recordRejected()
		span.SetStatus(codes.Error, domain.ErrOrderFinalized.Error())
		return fmt.Errorf("process order %d: %w", order.ID, domain.ErrOrderFinalized)
	}

	started := time.Now()
	result := metrics.ResultFailed
	if s.metrics != nil {
		s.metrics.RecordStarted()
	}
	defer func() {
		span.SetAttributes(attribute.String("order.result", result))
		if s.metrics != nil {
			s.metrics.RecordFinished(result, time.Since(started))
		}
	}()

	logger.Info("processing order")

	// После сбоя сохранения заказ остаётся в pending_validation; повторный вызов продолжает с него.
	if order.Status != domain.OrderStatusPendingValidation {
		if err := s.advance(ctx, order, domain.StatusEventValidate, ""); err != nil {
			return s.fail(span, logger, fmt.Errorf("process order %d: %w", order.ID, err))
		}
	}

	validateStart := time.Now()
	valid := s.validator.IsValid(*order)
	s.recordStep("validate", validateStart)

	if !valid {
		if err := s.advance(ctx, order, domain.StatusEventCancel, reasonInvalidAmount); err != nil {
			return s.fail(span, logger, fmt.Errorf("cancel order %d: %w", order.ID, err))
		}
		result = metrics.ResultCancelled
		logger.WithField("total_amount", order.TotalAmount.String()).Warn("order is invalid, cancelled")
		return nil
	}

	saveStart := time.Now()
	if err := s.repo.Save(ctx, *order); err != nil {
		return s.fail(span, logger, fmt.Errorf("save order %d: %w", order.ID, err))
	}
	s.recordStep("save", saveStart)
	s.appendTimeline(ctx, order, domain.TimelineEventSaved, "")

	notifyStart := time.Now()
	if err := s.notifier.SendOrderConfirmation(ctx, *order); err != nil {
		logger.WithError(err).Warn("order confirmation was not delivered")
		if s.metrics != nil {
			s.metrics.RecordNotificationFailed()
		}
		span.RecordError(err)
		s.appendTimeline(ctx, order, domain.TimelineEventNotifyFailed, err.Error())
	} else {
		s.appendTimeline(ctx, order, domain.TimelineEventNotified, "")
	}
	s.recordStep("notify", notifyStart)

	if err := s.advance(ctx, order, domain.StatusEventComplete, ""); err != nil {
		return s.fail(span, logger, fmt.Errorf("complete order %d: %w", order.ID, err))
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		return s.fail(span, logger, fmt.Errorf("persist status of order %d: %w", order.ID, err))
	}

	result = metrics.ResultProcessed
	logger.WithField("customer", order.CustomerName).Info("order processed successfully")
	return nil
}

// advance применяет событие и пишет смену статуса в timeline.
func (s *Service) advance(ctx context.Context, order *domain.Order, event domain.StatusEvent, reason string) error {
	if err := order.Advance(event); err != nil {
		return err
	}
	trace.SpanFromContext(ctx).AddEvent("status changed", trace.WithAttributes(
		attribute.String("order.status", string(order.Status)),
	))
	s.appendTimeline(ctx, order, domain.TimelineEventStatusChanged, reason)
	return nil
}

func (s *Service) appendTimeline(ctx context.Context, order *domain.Order, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     eventType,
		Status:   order.Status,
		Reason:   reason,
		Occurred: s.now(),
	}
	if err := s.timeline.Append(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Warn("append timeline event failed")
	}
}

func (s *Service) fail(span trace.Span, logger *log.Entry, err error) error {
	logger.WithError(err).Error("order processing failed")
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *Service) recordRejected() {
	if s.metrics != nil {
		s.metrics.RecordRejected()
	}
}

func (s *Service) recordStep(step string, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStepDuration(step, time.Since(started))
	}
}
