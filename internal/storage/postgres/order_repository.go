package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

type orderRepository struct {
	db     *sql.DB
	logger *log.Entry
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store, logger *log.Entry) domain.OrderRepository {
	if logger == nil {
		logger = log.WithField("component", "postgres-order-repository")
	}
	return &orderRepository{db: store.DB(), logger: logger}
}

// Save вставляет заказ или перезаписывает строку с тем же id (upsert).
func (r *orderRepository) Save(ctx context.Context, order domain.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET customer_name = EXCLUDED.customer_name,
		    total_amount  = EXCLUDED.total_amount,
		    status        = EXCLUDED.status,
		    updated_at    = EXCLUDED.updated_at
	`,
		order.ID, order.CustomerName, order.TotalAmount, string(order.Status),
		order.CreatedAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	r.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("order saved")
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var (
		order  domain.Order
		status string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, total_amount, status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerName, &order.TotalAmount, &status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()

	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
