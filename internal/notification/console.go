// Package notification содержит реализации domain.Notifier.
package notification

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Console пишет подтверждение заказа строкой в io.Writer вместо отправки email.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole создаёт консольный notifier. nil writer означает os.Stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// SendOrderConfirmation печатает строку с именем клиента.
func (c *Console) SendOrderConfirmation(_ context.Context, order domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "Confirmation email sent to customer %s (order #%d)\n", order.CustomerName, order.ID); err != nil {
		return fmt.Errorf("write confirmation: %w", err)
	}
	return nil
}

var _ domain.Notifier = (*Console)(nil)
