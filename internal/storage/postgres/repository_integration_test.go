package postgres

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}

func TestOrderRepository_PostgresSaveGetUpdate(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewOrderRepository(store, quietLogger())
	ctx := context.Background()

	order := *domain.NewOrder(1, "Oleksandra", decimal.RequireFromString("1500.25"))
	order.CreatedAt = order.CreatedAt.Round(time.Microsecond)
	order.Status = domain.OrderStatusPendingValidation

	if err := repo.Save(ctx, order); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.TotalAmount.Equal(order.TotalAmount) {
		t.Fatalf("expected amount %s, got %s", order.TotalAmount, stored.TotalAmount)
	}
	if !stored.CreatedAt.Equal(order.CreatedAt) {
		t.Fatalf("expected created_at %s, got %s", order.CreatedAt, stored.CreatedAt)
	}

	if err := repo.UpdateStatus(ctx, 1, domain.OrderStatusProcessed); err != nil {
		t.Fatalf("update status: %v", err)
	}
	stored, _ = repo.GetByID(ctx, 1)
	if stored.Status != domain.OrderStatusProcessed {
		t.Fatalf("expected processed, got %s", stored.Status)
	}

	// Save перезаписывает существующую запись.
	order.CustomerName = "renamed"
	if err := repo.Save(ctx, order); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	stored, _ = repo.GetByID(ctx, 1)
	if stored.CustomerName != "renamed" {
		t.Fatalf("expected overwrite, got %q", stored.CustomerName)
	}
}

func TestOrderRepository_PostgresNotFound(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewOrderRepository(store, quietLogger())
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 404); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, 404, domain.OrderStatusProcessed); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on update, got %v", err)
	}
}

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	timeline := NewTimelineRepository(store)
	ctx := context.Background()
	base := time.Now().UTC().Round(time.Microsecond)

	events := []domain.TimelineEvent{
		{OrderID: 7, Type: domain.TimelineEventStatusChanged, Status: domain.OrderStatusCancelled, Reason: "invalid", Occurred: base.Add(time.Second)},
		{OrderID: 7, Type: domain.TimelineEventStatusChanged, Status: domain.OrderStatusPendingValidation, Occurred: base},
	}
	for _, ev := range events {
		if err := timeline.Append(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	// Пустое время заполняется автоматически.
	if err := timeline.Append(ctx, domain.TimelineEvent{OrderID: 8, Type: domain.TimelineEventSaved, Status: domain.OrderStatusPendingValidation}); err != nil {
		t.Fatalf("append zero occurred: %v", err)
	}

	list, err := timeline.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 events, got %d", len(list))
	}
	if list[0].Status != domain.OrderStatusPendingValidation || list[1].Reason != "invalid" {
		t.Fatalf("unexpected events order: %+v", list)
	}

	other, err := timeline.List(ctx, 8)
	if err != nil || len(other) != 1 || other[0].Occurred.IsZero() {
		t.Fatalf("expected auto-filled occurred, got %+v (%v)", other, err)
	}
}

func TestStore_MigrateDownAndUp(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	ctx := context.Background()

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if version != 2 || count != 2 {
		t.Fatalf("expected version=2 applied=2, got version=%d applied=%d", version, count)
	}

	if err := store.MigrateDown(ctx, 1); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	version, _, _ = store.MigrationStatus(ctx)
	if version != 1 {
		t.Fatalf("expected version 1 after rollback, got %d", version)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	version, _, _ = store.MigrationStatus(ctx)
	if version != 2 {
		t.Fatalf("expected version 2 after re-apply, got %d", version)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
