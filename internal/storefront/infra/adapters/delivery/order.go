// Package delivery holds the checkout.Delivery adapters: log, gRPC, AMQP and
// WhatsApp hand-off, plus a fan-out combining them.
//
// Network adapters never block checkout. Deliver detaches from the request
// context, runs the send in its own goroutine under sendTimeout, and logs the
// outcome.
package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/deliveryrpc"
	"github.com/jcmexdev/mochi-storefront/internal/storefront/checkout"
)

const sendTimeout = 10 * time.Second

// ToOrder maps a checkout summary to the wire order.
func ToOrder(s checkout.Summary) deliveryrpc.Order {
	items := make([]deliveryrpc.Item, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, deliveryrpc.Item{
			ProductID: it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		})
	}
	return deliveryrpc.Order{
		ID: s.ID,
		Customer: deliveryrpc.Customer{
			Name:    s.Customer.Name,
			Phone:   s.Customer.Phone,
			Address: s.Customer.Address,
		},
		Items:       items,
		Total:       s.Total,
		SubmittedAt: s.Timestamp,
	}
}

// dispatch runs send in the background, detached from ctx cancellation but
// keeping its values (request id, span).
func dispatch(ctx context.Context, transport, orderID string, send func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.ErrorContext(ctx, "order delivery failed", "transport", transport, "order_id", orderID, "error", err)
			return
		}
		slog.InfoContext(ctx, "order delivered", "transport", transport, "order_id", orderID)
	}()
}
