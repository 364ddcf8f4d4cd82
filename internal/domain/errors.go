package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказа нет в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderRequired в обработку передан nil вместо заказа.
	ErrOrderRequired = errors.New("order is required")
	// ErrOrderFinalized заказ уже в конечном статусе, повторная обработка запрещена.
	ErrOrderFinalized = errors.New("order already finalized")
	// ErrInvalidTransition событие не применимо к текущему статусу.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// TransitionError уточняет, какой переход был отвергнут.
type TransitionError struct {
	From  OrderStatus
	Event StatusEvent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %q from %q", ErrInvalidTransition, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsNotFound проверяет, что ошибка означает отсутствие заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
