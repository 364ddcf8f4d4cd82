package notification

import (
	"context"
	"errors"

	"github.com/vladislavdragonenkov/orderflow/internal/domain"
)

// Fanout рассылает подтверждение через все notifier по порядку.
// Ошибка одного канала не мешает остальным; ошибки объединяются.
type Fanout []domain.Notifier

func (f Fanout) SendOrderConfirmation(ctx context.Context, order domain.Order) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.SendOrderConfirmation(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ domain.Notifier = Fanout(nil)
