package notification

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// RetryConfig параметры повторной отправки подтверждения.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Retrying повторяет отправку через внутренний notifier с экспоненциальной задержкой.
type Retrying struct {
	next   domain.Notifier
	config RetryConfig
	logger *log.Entry
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetrying оборачивает notifier. MaxAttempts < 1 трактуется как одна попытка.
func NewRetrying(next domain.Notifier, config RetryConfig, logger *log.Entry) *Retrying {
	if logger == nil {
		logger = log.WithField("component", "retrying-notifier")
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Retrying{
		next:   next,
		config: config,
		logger: logger,
		sleep:  sleepContext,
	}
}

func (r *Retrying) SendOrderConfirmation(ctx context.Context, order domain.Order) error {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err := r.next.SendOrderConfirmation(ctx, order)
		if err == nil {
			if attempt > 1 {
				r.logger.WithFields(log.Fields{
					"order_id": order.ID,
					"attempt":  attempt,
				}).Info("confirmation sent after retry")
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == r.config.MaxAttempts {
			break
		}

		r.logger.WithFields(log.Fields{
			"order_id": order.ID,
			"attempt":  attempt,
			"delay":    delay,
		}).WithError(err).Warn("confirmation failed, retrying")

		if err := r.sleep(ctx, delay); err != nil {
			return errors.Join(lastErr, err)
		}
		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if r.config.MaxDelay > 0 && delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}

	return lastErr
}

// shouldRetry отмена контекста не лечится повтором.
func shouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ domain.Notifier = (*Retrying)(nil)
