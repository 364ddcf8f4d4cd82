package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, log.WithField("component", "kafka-producer-test"))

	event := NewOrderEvent(EventTypeOrderProcessed, 1, "Oleksandra", "1500", "processed")

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded OrderEvent
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.OrderID != 1 || decoded.EventType != EventTypeOrderProcessed {
			t.Errorf("unexpected event payload: %+v", decoded)
		}
		return nil
	})

	if err := producer.PublishEvent(TopicOrderEvents, "1", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishEvent(TopicOrderEvents, "2", NewOrderEvent(EventTypeOrderCancelled, 2, "Ivan", "-200", "cancelled"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	if err := producer.PublishEvent(TopicOrderEvents, "3", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	if _, err := NewProducer(nil, nil); err == nil {
		t.Fatal("expected error for empty broker list")
	}
}

func TestNewOrderEvent(t *testing.T) {
	a := NewOrderEvent(EventTypeOrderProcessed, 1, "c", "10", "processed")
	b := NewOrderEvent(EventTypeOrderProcessed, 1, "c", "10", "processed")

	if a.EventID == "" || a.EventID == b.EventID {
		t.Fatalf("expected unique event ids, got %q and %q", a.EventID, b.EventID)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
	if a.TotalAmount != "10" {
		t.Fatalf("unexpected amount %q", a.TotalAmount)
	}
}
