package notification

import (
	"context"
	"strconv"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
)

// EventPublisher часть kafka.Producer, нужная notifier.
type EventPublisher interface {
	PublishEvent(topic, key string, event any) error
}

// Kafka публикует событие order.processed вместо письма клиенту.
type Kafka struct {
	publisher EventPublisher
	topic     string
}

// NewKafka создаёт Kafka-notifier. Пустой topic заменяется на kafka.TopicOrderEvents.
func NewKafka(publisher EventPublisher, topic string) *Kafka {
	if topic == "" {
		topic = kafka.TopicOrderEvents
	}
	return &Kafka{publisher: publisher, topic: topic}
}

func (k *Kafka) SendOrderConfirmation(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderProcessed,
		order.ID,
		order.CustomerName,
		order.TotalAmount.String(),
		string(order.Status),
	)
	return k.publisher.PublishEvent(k.topic, strconv.FormatInt(order.ID, 10), event)
}

var (
	_ domain.Notifier = (*Kafka)(nil)
	_ EventPublisher  = (*kafka.Producer)(nil)
)
