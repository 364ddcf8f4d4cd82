package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа в конвейере обработки.
type OrderStatus string

const (
	// OrderStatusNew заказ создан вызывающей стороной и ещё не обрабатывался.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusPendingValidation заказ взят в обработку и ждёт вердикта валидатора.
	OrderStatusPendingValidation OrderStatus = "pending_validation"
	// OrderStatusProcessed заказ сохранён, клиент уведомлён.
	OrderStatusProcessed OrderStatus = "processed"
	// OrderStatusCancelled заказ отклонён валидатором.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPendingValidation, OrderStatusProcessed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal сообщает, что из статуса нет переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusProcessed || s == OrderStatusCancelled
}

// StatusEvent событие, которое двигает заказ по жизненному циклу.
type StatusEvent string

const (
	StatusEventValidate StatusEvent = "validate"
	StatusEventComplete StatusEvent = "complete"
	StatusEventCancel   StatusEvent = "cancel"
)

type transitionKey struct {
	from  OrderStatus
	event StatusEvent
}

var transitions = map[transitionKey]OrderStatus{
	{OrderStatusNew, StatusEventValidate}:               OrderStatusPendingValidation,
	{OrderStatusPendingValidation, StatusEventComplete}: OrderStatusProcessed,
	{OrderStatusPendingValidation, StatusEventCancel}:   OrderStatusCancelled,
}

// Order представляет один запрос на покупку.
type Order struct {
	ID           int64
	CustomerName string
	// TotalAmount может быть отрицательным: это ловит валидатор, а не конструктор.
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
}

// NewOrder создаёт заказ в статусе new с текущим временем создания.
func NewOrder(id int64, customerName string, totalAmount decimal.Decimal) *Order {
	return &Order{
		ID:           id,
		CustomerName: customerName,
		TotalAmount:  totalAmount,
		Status:       OrderStatusNew,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsTerminal сообщает, что заказ уже прошёл обработку.
func (o *Order) IsTerminal() bool {
	return o.Status.Terminal()
}

// Advance применяет событие к заказу. Недопустимый переход не меняет статус.
func (o *Order) Advance(event StatusEvent) error {
	if o.IsTerminal() {
		return ErrOrderFinalized
	}
	next, ok := transitions[transitionKey{from: o.Status, event: event}]
	if !ok {
		return &TransitionError{From: o.Status, Event: event}
	}
	o.Status = next
	return nil
}
