package app

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// DemoOrder заказ, который бинарник обрабатывает при запуске.
type DemoOrder struct {
	ID       int64
	Customer string
	Amount   decimal.Decimal
}

// DemoOrders первый заказ проходит валидацию, второй отменяется из-за отрицательной суммы.
func DemoOrders() []DemoOrder {
	return []DemoOrder{
		{ID: 1, Customer: "Oleksandra", Amount: decimal.NewFromInt(1500)},
		{ID: 2, Customer: "Ivan", Amount: decimal.NewFromInt(-200)},
	}
}

type orderProcessor interface {
	ProcessOrder(ctx context.Context, order *domain.Order) error
}

// runDemo обрабатывает демонстрационные заказы по очереди и печатает итог.
func runDemo(ctx context.Context, svc orderProcessor, repo domain.OrderRepository, out io.Writer, demos []DemoOrder) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(demos))
	for _, demo := range demos {
		order := domain.NewOrder(demo.ID, demo.Customer, demo.Amount)
		if err := svc.ProcessOrder(ctx, order); err != nil {
			return orders, err
		}
		orders = append(orders, order)
	}

	if err := printSummary(ctx, repo, out, orders); err != nil {
		return orders, err
	}
	return orders, nil
}

func printSummary(ctx context.Context, repo domain.OrderRepository, out io.Writer, orders []*domain.Order) error {
	if _, err := fmt.Fprintln(out, "Summary:"); err != nil {
		return err
	}
	for _, order := range orders {
		stored := "not stored"
		saved, err := repo.GetByID(ctx, order.ID)
		switch {
		case err == nil:
			stored = fmt.Sprintf("stored as %s", saved.Status)
		case !domain.IsNotFound(err):
			return fmt.Errorf("lookup order %d: %w", order.ID, err)
		}

		if _, err := fmt.Fprintf(out, "  order #%d %s %s: %s, %s\n",
			order.ID, order.CustomerName, order.TotalAmount.String(), order.Status, stored); err != nil {
			return err
		}
	}
	return nil
}
