// Package validation содержит реализации domain.OrderValidator.
package validation

import "github.com/vladislavdragonenkov/orderflow/internal/domain"

// amountValidator принимает только заказы с положительной суммой.
type amountValidator struct{}

// NewAmountValidator возвращает валидатор по умолчанию: сумма заказа строго больше нуля.
// Остальные поля заказа не проверяются.
func NewAmountValidator() domain.OrderValidator {
	return amountValidator{}
}

func (amountValidator) IsValid(order domain.Order) bool {
	return order.TotalAmount.IsPositive()
}

// Func позволяет использовать обычную функцию как валидатор (удобно в тестах).
type Func func(order domain.Order) bool

func (f Func) IsValid(order domain.Order) bool {
	return f(order)
}

var (
	_ domain.OrderValidator = amountValidator{}
	_ domain.OrderValidator = Func(nil)
)
