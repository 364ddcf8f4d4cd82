package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

type stubPublisher struct {
	topic string
	key   string
	event any
	err   error
	calls int
}

func (s *stubPublisher) PublishEvent(topic, key string, event any) error {
	s.calls++
	s.topic, s.key, s.event = topic, key, event
	return s.err
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) SendOrderConfirmation(context.Context, domain.Order) error {
	c.calls++
	return c.err
}

func testOrder() domain.Order {
	order := domain.NewOrder(1, "Oleksandra", decimal.NewFromInt(1500))
	order.Status = domain.OrderStatusPendingValidation
	return *order
}

func TestConsole_WritesCustomerName(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsole(&buf)

	if err := n.SendOrderConfirmation(context.Background(), testOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "Oleksandra") || !strings.Contains(line, "#1") {
		t.Fatalf("confirmation line does not name the customer: %q", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("expected newline-terminated line, got %q", line)
	}
}

func TestConsole_WriterError(t *testing.T) {
	n := NewConsole(failingWriter{})
	if err := n.SendOrderConfirmation(context.Background(), testOrder()); err == nil {
		t.Fatal("expected writer error to be returned")
	}
}

func TestKafka_PublishesProcessedEvent(t *testing.T) {
	pub := &stubPublisher{}
	n := NewKafka(pub, "")

	if err := n.SendOrderConfirmation(context.Background(), testOrder()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pub.topic != kafka.TopicOrderEvents {
		t.Fatalf("expected default topic, got %q", pub.topic)
	}
	if pub.key != "1" {
		t.Fatalf("expected key 1, got %q", pub.key)
	}

	raw, err := json.Marshal(pub.event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	var event kafka.OrderEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if event.EventType != kafka.EventTypeOrderProcessed || event.TotalAmount != "1500" || event.CustomerName != "Oleksandra" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestKafka_PropagatesErrors(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	n := NewKafka(pub, "custom")

	if err := n.SendOrderConfirmation(context.Background(), testOrder()); err == nil {
		t.Fatal("expected publish error")
	}
	if pub.topic != "custom" {
		t.Fatalf("expected custom topic, got %q", pub.topic)
	}
}

func TestKafka_CancelledContext(t *testing.T) {
	pub := &stubPublisher{}
	n := NewKafka(pub, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.SendOrderConfirmation(ctx, testOrder()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if pub.calls != 0 {
		t.Fatal("publisher must not be called with cancelled context")
	}
}

func TestFanout_CallsAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	a := &countingNotifier{err: errA}
	b := &countingNotifier{}

	err := Fanout{a, nil, b}.SendOrderConfirmation(context.Background(), testOrder())

	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to contain errA, got %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("expected every notifier to be called once, got a=%d b=%d", a.calls, b.calls)
	}
}

func TestFanout_Empty(t *testing.T) {
	if err := Fanout(nil).SendOrderConfirmation(context.Background(), testOrder()); err != nil {
		t.Fatalf("expected nil error for empty fanout, got %v", err)
	}
}
