package domain

import "context"

// OrderValidator классифицирует заказ как валидный или нет. Без побочных эффектов.
type OrderValidator interface {
	IsValid(order Order) bool
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Save сохраняет заказ или перезаписывает существующий с тем же ID.
	Save(ctx context.Context, order Order) error
	// GetByID возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	GetByID(ctx context.Context, id int64) (Order, error)
	// UpdateStatus фиксирует новый статус уже сохранённого заказа.
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
}

// Notifier сообщает клиенту об успешной обработке заказа.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order Order) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID int64) ([]TimelineEvent, error)
}
