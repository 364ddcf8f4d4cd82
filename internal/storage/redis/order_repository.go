// Package redis хранит заказы в Redis: один JSON-документ на заказ по ключу <prefix>order:<id>.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Config параметры подключения к Redis.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// ConfigDefaults значения по умолчанию для локального Redis.
func ConfigDefaults() Config {
	return Config{
		Addr:      "localhost:6379",
		KeyPrefix: "orderflow:",
	}
}

// maxWatchRetries ограничивает повторы оптимистичной транзакции UpdateStatus.
const maxWatchRetries = 5

// OrderRepository реализация domain.OrderRepository поверх go-redis.
type OrderRepository struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *log.Entry
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

type orderDocument struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  string    `json:"total_amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewOrderRepository открывает клиент Redis по конфигурации.
func NewOrderRepository(cfg Config, logger *log.Entry) (*OrderRepository, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewOrderRepositoryFromClient(client, cfg.KeyPrefix, logger), nil
}

// NewOrderRepositoryFromClient оборачивает уже созданный клиент.
func NewOrderRepositoryFromClient(client redis.UniversalClient, keyPrefix string, logger *log.Entry) *OrderRepository {
	if logger == nil {
		logger = log.WithField("component", "redis-order-repository")
	}
	return &OrderRepository{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (r *OrderRepository) key(id int64) string {
	return r.keyPrefix + "order:" + strconv.FormatInt(id, 10)
}

// Ping проверяет соединение.
func (r *OrderRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает клиент.
func (r *OrderRepository) Close() error {
	return r.client.Close()
}

// Save записывает заказ, перезаписывая существующий документ.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) error {
	payload, err := encodeOrder(order)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(order.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"customer": order.CustomerName,
		"status":   order.Status,
	}).Info("order saved")
	return nil
}

// GetByID читает заказ; redis.Nil превращается в domain.ErrOrderNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return decodeOrder(data)
}

// UpdateStatus меняет статус сохранённого заказа в WATCH-транзакции.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	key := r.key(id)

	update := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}

		order, err := decodeOrder(data)
		if err != nil {
			return err
		}
		order.Status = status

		payload, err := encodeOrder(order)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, update, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
			return fmt.Errorf("update order status: %w", err)
		}
		return err
	}
	return fmt.Errorf("update order status: %w", redis.TxFailedErr)
}

func encodeOrder(order domain.Order) ([]byte, error) {
	payload, err := json.Marshal(orderDocument{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount.String(),
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}
	return payload, nil
}

func decodeOrder(data []byte) (domain.Order, error) {
	var doc orderDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal order: %w", err)
	}
	amount, err := decimal.NewFromString(doc.TotalAmount)
	if err != nil {
		return domain.Order{}, fmt.Errorf("parse total amount %q: %w", doc.TotalAmount, err)
	}
	return domain.Order{
		ID:           doc.ID,
		CustomerName: doc.CustomerName,
		TotalAmount:  amount,
		Status:       domain.OrderStatus(doc.Status),
		CreatedAt:    doc.CreatedAt,
	}, nil
}
