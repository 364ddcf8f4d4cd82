package memory

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// orderRepositoryInMemory хранит заказы в map по ID. Данные живут до конца процесса.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[int64]domain.Order
	logger *log.Entry
}

// NewOrderRepository возвращает in-memory репозиторий (хранилище по умолчанию).
func NewOrderRepository(logger *log.Entry) domain.OrderRepository {
	if logger == nil {
		logger = log.WithField("component", "memory-order-repository")
	}
	return &orderRepositoryInMemory{
		items:  make(map[int64]domain.Order),
		logger: logger,
	}
}

// Save сохраняет копию заказа, перезаписывая запись с тем же ID.
func (r *orderRepositoryInMemory) Save(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	_, existed := r.items[order.ID]
	r.items[order.ID] = order
	r.mu.Unlock()

	r.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"status":    order.Status,
		"overwrite": existed,
	}).Info("order saved")
	return nil
}

// GetByID возвращает копию заказа или ErrOrderNotFound.
func (r *orderRepositoryInMemory) GetByID(_ context.Context, id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus меняет статус сохранённого заказа.
func (r *orderRepositoryInMemory) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	r.items[id] = order
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
