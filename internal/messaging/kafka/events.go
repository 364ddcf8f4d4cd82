package kafka

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип события заказа.
type EventType string

const (
	EventTypeOrderProcessed EventType = "order.processed"
	EventTypeOrderCancelled EventType = "order.cancelled"
)

// TopicOrderEvents topic по умолчанию для событий заказов.
const TopicOrderEvents = "orderflow.order.events"

// OrderEvent JSON-представление события заказа в Kafka.
type OrderEvent struct {
	EventID      string    `json:"event_id"`
	EventType    EventType `json:"event_type"`
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	TotalAmount  string    `json:"total_amount"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewOrderEvent создаёт событие с уникальным идентификатором.
// Сумма передаётся строкой, чтобы не терять точность decimal.
func NewOrderEvent(eventType EventType, orderID int64, customerName, totalAmount, status string) *OrderEvent {
	return &OrderEvent{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		OrderID:      orderID,
		CustomerName: customerName,
		TotalAmount:  totalAmount,
		Status:       status,
		Timestamp:    time.Now().UTC(),
	}
}
