package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

func TestAmountValidator(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   bool
	}{
		{name: "positive", amount: decimal.NewFromInt(1500), want: true},
		{name: "smallest positive fraction", amount: decimal.RequireFromString("0.01"), want: true},
		{name: "zero", amount: decimal.Zero, want: false},
		{name: "negative", amount: decimal.NewFromInt(-200), want: false},
		{name: "negative fraction", amount: decimal.RequireFromString("-0.0001"), want: false},
	}

	v := NewAmountValidator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order := domain.NewOrder(1, "customer", tc.amount)
			if got := v.IsValid(*order); got != tc.want {
				t.Fatalf("IsValid(%s) = %v, want %v", tc.amount, got, tc.want)
			}
		})
	}
}

func TestAmountValidator_IgnoresOtherFields(t *testing.T) {
	order := domain.Order{ID: 0, CustomerName: "", TotalAmount: decimal.NewFromInt(1)}
	if !NewAmountValidator().IsValid(order) {
		t.Fatal("only the amount should be inspected")
	}
}

func TestAmountValidator_NoSideEffects(t *testing.T) {
	order := domain.NewOrder(7, "customer", decimal.NewFromInt(5))
	before := *order

	_ = NewAmountValidator().IsValid(*order)

	if order.Status != before.Status || !order.TotalAmount.Equal(before.TotalAmount) {
		t.Fatal("validator must not mutate the order")
	}
}

func TestFunc(t *testing.T) {
	calls := 0
	v := Func(func(domain.Order) bool {
		calls++
		return false
	})

	if v.IsValid(domain.Order{}) {
		t.Fatal("expected Func to return wrapped verdict")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}
