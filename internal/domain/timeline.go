package domain

import "time"

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  int64
	Type     string
	Status   OrderStatus
	Reason   string
	Occurred time.Time
}

// Типы событий timeline.
const (
	TimelineEventStatusChanged = "OrderStatusChanged"
	TimelineEventSaved         = "OrderSaved"
	TimelineEventNotified      = "OrderNotified"
	TimelineEventNotifyFailed  = "OrderNotificationFailed"
)
